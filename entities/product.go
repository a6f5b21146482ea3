package entities

type Product struct {
	ProductID string `json:"product_id" db:"product_id"`
	Name      string `json:"name" db:"name"`
	Price     Money  `json:"price" db:"price"`
}

type ProductCreateResponse struct {
	ProductID string `json:"product_id"`
}
