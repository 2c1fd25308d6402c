package dataset

import (
	"sort"

	"github.com/hearthside/cartfill/internal/domain"
)

// mainProducts is the curated primary-appliance catalog.
var mainProducts = []string{
	"Refrigerator", "Dishwasher", "Washer", "Dryer", "Microwave", "Range",
	"Coffee Maker", "Vacuum", "Air Purifier", "Grill", "Water Heater",
	"Blender", "Stand Mixer", "Toaster Oven", "Slow Cooker", "Food Processor",
	"Robot Vacuum", "Portable Heater", "Ceiling Fan", "Dehumidifier", "Lawn Mower",
	"Leaf Blower", "Pressure Washer", "Outdoor Fire Pit", "Patio Furniture Set",
}

// complements maps each main product to its curated accessory list.
// These pairs must always survive rule mining via the default floors.
var complements = map[string][]string{
	"Refrigerator":        {"Water Filter", "Surge Protector", "Extended Warranty"},
	"Dishwasher":          {"Dishwasher Pods", "Rinse Aid", "Extended Warranty", "Installation Kit"},
	"Washer":              {"Dryer", "Washer Hoses", "Extended Warranty", "Stacking Kit"},
	"Dryer":               {"Dryer Vent Kit", "Lint Trap", "Extended Warranty", "Stacking Kit"},
	"Microwave":           {"Microwave Trim Kit", "Surge Protector", "Extended Warranty"},
	"Range":               {"Oven Liners", "Cast Iron Griddle", "Extended Warranty", "Installation Kit"},
	"Coffee Maker":        {"Coffee Filters", "Descaler", "Extended Warranty"},
	"Vacuum":              {"Vacuum Bags", "HEPA Filter", "Extended Warranty"},
	"Air Purifier":        {"HEPA Filter", "Carbon Filter", "Extended Warranty"},
	"Grill":               {"Grill Cover", "Propane Tank", "Grill Brush", "Extended Warranty"},
	"Water Heater":        {"Anode Rod", "Expansion Tank", "Extended Warranty", "Installation Kit"},
	"Blender":             {"Extra Pitcher", "Blade Assembly", "Recipe Book", "Extended Warranty"},
	"Stand Mixer":         {"Dough Hook", "Pouring Shield", "Recipe Book", "Extended Warranty"},
	"Toaster Oven":        {"Baking Tray", "Pizza Stone", "Surge Protector", "Extended Warranty"},
	"Slow Cooker":         {"Extra Crock Insert", "Recipe Book", "Extended Warranty"},
	"Food Processor":      {"Slicing Blade Set", "Dough Blade", "Recipe Book", "Extended Warranty"},
	"Robot Vacuum":        {"Extra Brushes", "Extra Filters", "Extended Warranty", "Mop Attachment"},
	"Portable Heater":     {"Remote Control", "Safety Guard", "Extended Warranty"},
	"Ceiling Fan":         {"Light Kit", "Remote Control", "Installation Kit", "Extended Warranty"},
	"Dehumidifier":        {"Drain Hose", "HEPA Filter", "Extended Warranty"},
	"Lawn Mower":          {"Grass Catcher", "Spare Blades", "Fuel Stabilizer", "Extended Warranty"},
	"Leaf Blower":         {"Battery Pack", "Shoulder Strap", "Nozzle Attachment", "Extended Warranty"},
	"Pressure Washer":     {"Hose Extension", "Foam Cannon", "Nozzle Set", "Extended Warranty"},
	"Outdoor Fire Pit":    {"Firewood Rack", "Weather Cover", "Grill Grate", "Extended Warranty"},
	"Patio Furniture Set": {"Cushion Covers", "Furniture Covers", "Patio Umbrella", "Extended Warranty"},
}

// prices is the list-price map for mains and accessories.
var prices = map[string]float64{
	"Refrigerator": 1499, "Dishwasher": 699, "Washer": 899, "Dryer": 899, "Microwave": 199, "Range": 1099,
	"Coffee Maker": 129, "Vacuum": 249, "Air Purifier": 199, "Grill": 399, "Water Heater": 899,
	"Blender": 99, "Stand Mixer": 299, "Toaster Oven": 179, "Slow Cooker": 89, "Food Processor": 159,
	"Robot Vacuum": 399, "Portable Heater": 89, "Ceiling Fan": 179, "Dehumidifier": 229, "Lawn Mower": 449,
	"Leaf Blower": 139, "Pressure Washer": 249, "Outdoor Fire Pit": 229, "Patio Furniture Set": 799,

	"Water Filter": 49, "Surge Protector": 29, "Extended Warranty": 129, "Installation Kit": 59,
	"Dishwasher Pods": 18, "Rinse Aid": 11, "Washer Hoses": 29, "Stacking Kit": 79, "Dryer Vent Kit": 39,
	"Lint Trap": 19, "Microwave Trim Kit": 89, "Oven Liners": 16, "Cast Iron Griddle": 39,
	"Coffee Filters": 9, "Descaler": 14, "Vacuum Bags": 19, "HEPA Filter": 24, "Carbon Filter": 22,
	"Grill Cover": 35, "Propane Tank": 59, "Grill Brush": 14, "Anode Rod": 35, "Expansion Tank": 89,
	"Extra Pitcher": 24, "Blade Assembly": 19, "Recipe Book": 15, "Baking Tray": 12, "Pizza Stone": 34,
	"Extra Crock Insert": 29, "Slicing Blade Set": 29, "Dough Blade": 19, "Extra Brushes": 17,
	"Extra Filters": 19, "Mop Attachment": 29, "Remote Control": 19, "Safety Guard": 15,
	"Light Kit": 39, "Drain Hose": 12, "Grass Catcher": 59, "Spare Blades": 29, "Fuel Stabilizer": 9,
	"Battery Pack": 59, "Shoulder Strap": 19, "Nozzle Attachment": 15, "Hose Extension": 29,
	"Foam Cannon": 24, "Nozzle Set": 19, "Firewood Rack": 69, "Weather Cover": 39, "Grill Grate": 24,
	"Cushion Covers": 49, "Furniture Covers": 69, "Patio Umbrella": 129, "Maintenance Plan": 149,
	"Dough Hook": 25, "Pouring Shield": 18,
}

// rooms labels mains with their category; accessories are mostly roomless.
var rooms = map[string]string{
	"Refrigerator": "Kitchen", "Dishwasher": "Kitchen", "Microwave": "Kitchen", "Range": "Kitchen",
	"Coffee Maker": "Kitchen", "Blender": "Kitchen", "Stand Mixer": "Kitchen", "Toaster Oven": "Kitchen",
	"Slow Cooker": "Kitchen", "Food Processor": "Kitchen",
	"Washer": "Laundry", "Dryer": "Laundry", "Stacking Kit": "Laundry", "Washer Hoses": "Laundry",
	"Dryer Vent Kit": "Laundry",
	"Vacuum": "General", "Robot Vacuum": "General", "Air Purifier": "General", "Portable Heater": "General",
	"Ceiling Fan": "General", "Dehumidifier": "General",
	"Water Heater": "Utility",
	"Grill": "Outdoor", "Outdoor Fire Pit": "Outdoor", "Pressure Washer": "Outdoor",
	"Lawn Mower": "Outdoor", "Leaf Blower": "Outdoor", "Patio Furniture Set": "Outdoor",
}

// servicePlanItem is occasionally attached to purchases and invoices.
const servicePlanItem = "Maintenance Plan"

// BuildCatalog assembles the static catalog snapshot: all mains, every curated
// accessory, and the service plan, with the main set, room and price maps.
func BuildCatalog() *domain.Catalog {
	all := make(map[string]struct{}, len(prices))
	for _, m := range mainProducts {
		all[m] = struct{}{}
	}
	for _, accs := range complements {
		for _, a := range accs {
			all[a] = struct{}{}
		}
	}
	all[servicePlanItem] = struct{}{}

	items := make([]string, 0, len(all))
	for it := range all {
		items = append(items, it)
	}
	sort.Strings(items)

	mains := make(map[string]bool, len(mainProducts))
	for _, m := range mainProducts {
		mains[m] = true
	}

	comps := make(map[string][]string, len(complements))
	for m, accs := range complements {
		comps[m] = append([]string(nil), accs...)
	}

	return &domain.Catalog{
		Items:        items,
		MainProducts: mains,
		Complements:  comps,
		Rooms:        copyStringMap(rooms),
		Prices:       copyFloatMap(prices),
	}
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyFloatMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
