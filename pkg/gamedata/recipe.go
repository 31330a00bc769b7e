package gamedata

type Recipe struct {
	ID           int          `json:"id"`
	ResultItemID int          `json:"resultItemId"`
	ResultQty    int          `json:"resultQty"`
	Ingredients  []Ingredient `json:"ingredients"`
	ProfessionID int          `json:"professionId,omitempty"`
	Level        int          `json:"level,omitempty"`
}

type Ingredient struct {
	ItemID int `json:"itemId"`
	Qty    int `json:"qty"`
}
