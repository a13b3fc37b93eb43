// AngelaMos | 2026
// entity.go

package table

type Table struct {
	ID       string `db:"id"`
	Number   int    `db:"number"`
	Capacity int    `db:"capacity"`
	Location string `db:"location"`
	Active   bool   `db:"active"`
}

// Seats reports whether the table can take a party of n.
func (t *Table) Seats(n int) bool {
	return t.Active && n > 0 && t.Capacity >= n
}

type Response struct {
	ID          string `json:"id"`
	Numero      int    `json:"numero"`
	Capacidade  int    `json:"capacidade"`
	Localizacao string `json:"localizacao"`
	Ativa       bool   `json:"ativa"`
}

func ToResponse(t *Table) Response {
	return Response{
		ID:          t.ID,
		Numero:      t.Number,
		Capacidade:  t.Capacity,
		Localizacao: t.Location,
		Ativa:       t.Active,
	}
}

func ToResponseList(tables []Table) []Response {
	out := make([]Response, 0, len(tables))
	for i := range tables {
		out = append(out, ToResponse(&tables[i]))
	}
	return out
}
