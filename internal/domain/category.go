package domain

type Category struct {
	Key           string `json:"key" db:"key"`
	Name          string `json:"name" db:"name"`
	Emoji         string `json:"emoji" db:"emoji"`
	SortOrder     int    `json:"sort_order" db:"sort_order"`
	ProductsCount int64  `json:"products_count" db:"products_count"`
}

func (c Category) Label() string {
	if c.Emoji == "" {
		return c.Name
	}
	return c.Emoji + " " + c.Name
}
