package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Indicador lleno/vacío de un contenedor.
const (
	ContainerFull  = "FULL"
	ContainerEmpty = "EMPTY"
)

// RecordPayload es la unión etiquetada de los datos específicos de cada módulo.
// Cada variante conoce su precio, su código de servicio y su clave natural para duplicados.
type RecordPayload interface {
	Module() string
	Price() decimal.Decimal
	ServiceCode() string
	NaturalKey() string
	Validate() error
}

// TruckingPayload movimiento de contenedor (transporte o gasto de autoridad).
type TruckingPayload struct {
	ContainerID   string          `json:"container_id"`
	ContainerSize string          `json:"container_size,omitempty"`
	BLNumber      string          `json:"bl_number"`
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	MoveDate      time.Time       `json:"move_date"`
	FullEmpty     string          `json:"full_empty"`
	Service       string          `json:"service_code,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	DriverName    string          `json:"driver_name,omitempty"`
	Plate         string          `json:"plate,omitempty"`
}

func (p *TruckingPayload) Module() string          { return ModuleTrucking }
func (p *TruckingPayload) Price() decimal.Decimal { return p.Amount }
func (p *TruckingPayload) ServiceCode() string    { return p.Service }

// IsFull indica si el contenedor viaja lleno.
func (p *TruckingPayload) IsFull() bool { return p.FullEmpty == ContainerFull }

func (p *TruckingPayload) NaturalKey() string {
	return strings.Join([]string{
		strings.ToUpper(p.ContainerID),
		p.MoveDate.Format("2006-01-02"),
		strings.ToUpper(p.Origin),
		strings.ToUpper(p.Destination),
	}, "|")
}

func (p *TruckingPayload) Validate() error {
	if p.ContainerID == "" {
		return errors.New("container_id requerido")
	}
	if p.MoveDate.IsZero() {
		return errors.New("move_date requerido")
	}
	if p.FullEmpty != ContainerFull && p.FullEmpty != ContainerEmpty {
		return fmt.Errorf("full_empty inválido: %q", p.FullEmpty)
	}
	if p.Amount.IsNegative() {
		return errors.New("amount negativo")
	}
	return nil
}

// AgencyPayload transporte de tripulación. AncillaryFee es un cargo plano (espera, nocturno).
type AgencyPayload struct {
	CrewName        string          `json:"crew_name"`
	CrewRank        string          `json:"crew_rank,omitempty"`
	Vessel          string          `json:"vessel"`
	Voyage          string          `json:"voyage,omitempty"`
	PickupLocation  string          `json:"pickup_location"`
	DropoffLocation string          `json:"dropoff_location"`
	ServiceDate     time.Time       `json:"service_date"`
	Service         string          `json:"service_code,omitempty"`
	BaseRate        decimal.Decimal `json:"base_rate"`
	AncillaryFee    decimal.Decimal `json:"ancillary_fee"`
}

func (p *AgencyPayload) Module() string          { return ModuleAgency }
func (p *AgencyPayload) Price() decimal.Decimal { return p.BaseRate.Add(p.AncillaryFee) }
func (p *AgencyPayload) ServiceCode() string    { return p.Service }

func (p *AgencyPayload) NaturalKey() string {
	return strings.Join([]string{
		strings.ToUpper(p.CrewName),
		strings.ToUpper(p.Vessel),
		p.ServiceDate.Format("2006-01-02"),
		strings.ToUpper(p.PickupLocation),
		strings.ToUpper(p.DropoffLocation),
	}, "|")
}

func (p *AgencyPayload) Validate() error {
	if p.CrewName == "" || p.Vessel == "" {
		return errors.New("crew_name y vessel requeridos")
	}
	if p.ServiceDate.IsZero() {
		return errors.New("service_date requerido")
	}
	if p.BaseRate.IsNegative() || p.AncillaryFee.IsNegative() {
		return errors.New("tarifas negativas")
	}
	return nil
}

// ShipchandlerPayload entrega de suministros a un buque.
type ShipchandlerPayload struct {
	Vessel       string          `json:"vessel"`
	DeliveryNote string          `json:"delivery_note"`
	Description  string          `json:"description,omitempty"`
	DeliveryDate time.Time       `json:"delivery_date"`
	Service      string          `json:"service_code,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
}

func (p *ShipchandlerPayload) Module() string          { return ModuleShipchandler }
func (p *ShipchandlerPayload) Price() decimal.Decimal { return p.Amount }
func (p *ShipchandlerPayload) ServiceCode() string    { return p.Service }

func (p *ShipchandlerPayload) NaturalKey() string {
	return strings.Join([]string{
		strings.ToUpper(p.DeliveryNote),
		strings.ToUpper(p.Vessel),
		p.DeliveryDate.Format("2006-01-02"),
	}, "|")
}

func (p *ShipchandlerPayload) Validate() error {
	if p.Vessel == "" || p.DeliveryNote == "" {
		return errors.New("vessel y delivery_note requeridos")
	}
	if p.DeliveryDate.IsZero() {
		return errors.New("delivery_date requerido")
	}
	if p.Amount.IsNegative() {
		return errors.New("amount negativo")
	}
	return nil
}

// MarshalPayload serializa el payload a JSON para persistirlo.
func MarshalPayload(p RecordPayload) ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

// UnmarshalPayload reconstruye la variante correcta según el módulo.
func UnmarshalPayload(module string, data []byte) (RecordPayload, error) {
	var p RecordPayload
	switch module {
	case ModuleTrucking:
		p = &TruckingPayload{}
	case ModuleAgency:
		p = &AgencyPayload{}
	case ModuleShipchandler:
		p = &ShipchandlerPayload{}
	default:
		return nil, fmt.Errorf("módulo desconocido: %q", module)
	}
	if len(data) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("payload %s: %w", module, err)
	}
	return p, nil
}
