package entity

// CardSalt sal anual de los identificadores de tarjeta.
// Los usuarios de un mismo año comparten la sal, así la búsqueda por tarjeta
// cuesta un hash por año y no uno por usuario.
type CardSalt struct {
	Year int
	Salt string
}
