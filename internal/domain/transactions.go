package domain

// Customer is one catalog customer record.
type Customer struct {
	ID      string `json:"customer_id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Purchase is one point-of-sale line: a customer bought an item on a date.
// All purchases by one customer on one date form a basket.
type Purchase struct {
	CustomerID string `json:"customer_id"`
	Date       string `json:"date"` // YYYY-MM-DD
	Item       string `json:"item"`
}

// Invoice is one billed order header.
type Invoice struct {
	ID         string  `json:"invoice_id"`
	CustomerID string  `json:"customer_id"`
	Date       string  `json:"date"` // YYYY-MM-DD
	Total      float64 `json:"total"`
}

// InvoiceItem is one invoice line. All lines of an invoice form a basket.
type InvoiceItem struct {
	InvoiceID string `json:"invoice_id"`
	Item      string `json:"item"`
}
