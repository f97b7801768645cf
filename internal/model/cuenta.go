package model

// Cuenta identifies one of the two cash accounts.
// "fisica" is the physical register drawer; "virtual" is the bank/digital
// account. Cuenta is a tag on movements and sessions, not a stored entity.
type Cuenta string

const (
	CuentaFisica  Cuenta = "fisica"
	CuentaVirtual Cuenta = "virtual"
)

// Valida reports whether c is one of the two known accounts.
func (c Cuenta) Valida() bool {
	return c == CuentaFisica || c == CuentaVirtual
}
