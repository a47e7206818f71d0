package billing

import (
	"fmt"
	"strings"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// ValidateInvoiceNumber exige número no vacío y, para gastos de autoridad,
// que conserve el prefijo reservado.
func ValidateInvoiceNumber(inv *entity.Invoice, number, authorityPrefix string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return fmt.Errorf("%w: número de factura requerido", domain.ErrInvalidInput)
	}
	if inv.Module == entity.ModuleTrucking && inv.Type == entity.TypeAuthority && authorityPrefix != "" {
		if !strings.HasPrefix(number, authorityPrefix) || len(number) == len(authorityPrefix) {
			return fmt.Errorf("%w: debe iniciar con %q", domain.ErrInvalidNumberFormat, authorityPrefix)
		}
	}
	return nil
}
