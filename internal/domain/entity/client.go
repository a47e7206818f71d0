package entity

import "time"

// Client representa un cliente facturable (naviera, agencia, armador).
type Client struct {
	ID        string
	Name      string
	TaxID     string // RUC / NIT
	SAPCode   string // Código de deudor en SAP
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
