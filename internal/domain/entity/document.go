package entity

import "time"

// Document kinds produced for a deal
const (
	DocumentKindContract = "contract"
	DocumentKindInvoice  = "invoice"
)

// Document records a generated PDF on disk
type Document struct {
	ID        int64     `json:"id"`
	DealID    int64     `json:"deal_id"`
	Kind      string    `json:"kind"`
	FilePath  string    `json:"file_path"`
	CreatedAt time.Time `json:"created_at"`
}
