package schema

type RawItem struct {
	ID           int
	Level        int
	TypeID       int
	Titles       map[string]string
	Descriptions map[string]string
}

type RawRecipe struct {
	ID         int
	CategoryID int
	Level      int
}

type RawIngredient struct {
	RecipeID int
	ItemID   int
	Quantity int
	Order    int
}

type RawResult struct {
	RecipeID int
	ItemID   int
	Quantity int
}

type RawState struct {
	ID           int
	Titles       map[string]string
	Descriptions map[string]string
}

type RawAction struct {
	ID           int
	Effect       string
	Descriptions map[string]string
}

type RawCategory struct {
	ID     int
	Titles map[string]string
}

type RawEquipmentType struct {
	ID       int
	ParentID int
	Titles   map[string]string
}

func (m *Mapping) ItemID(raw []byte) int {
	return m.Items.ID.Int(raw)
}

func (m *Mapping) Item(raw []byte) RawItem {
	return RawItem{
		ID:           m.Items.ID.Int(raw),
		Level:        m.Items.Level.Int(raw),
		TypeID:       m.Items.TypeID.Int(raw),
		Titles:       m.Items.Title.All(raw),
		Descriptions: m.Items.Description.All(raw),
	}
}

func (m *Mapping) Recipe(raw []byte) RawRecipe {
	return RawRecipe{
		ID:         m.Recipes.ID.Int(raw),
		CategoryID: m.Recipes.CategoryID.Int(raw),
		Level:      m.Recipes.Level.Int(raw),
	}
}

func (m *Mapping) Ingredient(raw []byte) RawIngredient {
	return RawIngredient{
		RecipeID: m.Ingredients.RecipeID.Int(raw),
		ItemID:   m.Ingredients.ItemID.Int(raw),
		Quantity: m.Ingredients.Quantity.Int(raw),
		Order:    m.Ingredients.Order.Int(raw),
	}
}

// Result decodes a recipe result row. A missing quantity means one.
func (m *Mapping) Result(raw []byte) RawResult {
	qty := m.Results.Quantity.Get(raw)
	r := RawResult{
		RecipeID: m.Results.RecipeID.Int(raw),
		ItemID:   m.Results.ItemID.Int(raw),
		Quantity: 1,
	}
	if qty.Exists() && qty.Int() > 0 {
		r.Quantity = int(qty.Int())
	}
	return r
}

func (m *Mapping) State(raw []byte) RawState {
	return RawState{
		ID:           m.States.ID.Int(raw),
		Titles:       m.States.Title.All(raw),
		Descriptions: m.States.Description.All(raw),
	}
}

func (m *Mapping) Action(raw []byte) RawAction {
	return RawAction{
		ID:           m.Actions.ID.Int(raw),
		Effect:       m.Actions.Effect.Get(raw).String(),
		Descriptions: m.Actions.Description.All(raw),
	}
}

func (m *Mapping) Category(raw []byte) RawCategory {
	return RawCategory{
		ID:     m.Categories.ID.Int(raw),
		Titles: m.Categories.Title.All(raw),
	}
}

func (m *Mapping) EquipmentType(raw []byte) RawEquipmentType {
	return RawEquipmentType{
		ID:       m.EquipmentTypes.ID.Int(raw),
		ParentID: m.EquipmentTypes.ParentID.Int(raw),
		Titles:   m.EquipmentTypes.Title.All(raw),
	}
}
