package schema

// Current matches the live CDN layout where item and state rows nest their
// identity under "definition".
func Current() *Mapping {
	return &Mapping{
		Items: ItemFields{
			ID:          "definition.item.id",
			Level:       "definition.item.level",
			TypeID:      "definition.item.baseParameters.itemTypeId",
			Title:       "title",
			Description: "description",
		},
		Recipes: RecipeFields{
			ID:         "id",
			CategoryID: "categoryId",
			Level:      "level",
		},
		Ingredients: IngredientFields{
			RecipeID: "recipeId",
			ItemID:   "itemId",
			Quantity: "quantity",
			Order:    "ingredientOrder",
		},
		Results: ResultFields{
			RecipeID: "recipeId",
			ItemID:   "productedItemId",
			Quantity: "productedItemQuantity",
		},
		States: StateFields{
			ID:          "definition.id",
			Title:       "title",
			Description: "description",
		},
		Actions: ActionFields{
			ID:          "definition.id",
			Effect:      "definition.effect",
			Description: "description",
		},
		Categories: CategoryFields{
			ID:    "definition.id",
			Title: "title",
		},
		EquipmentTypes: EquipmentTypeFields{
			ID:       "definition.id",
			ParentID: "definition.parentId",
			Title:    "title",
		},
	}
}

// Legacy matches the flat dumps published before rows were nested, where
// results used resultItemId/resultQty.
func Legacy() *Mapping {
	return &Mapping{
		Items: ItemFields{
			ID:          "id",
			Level:       "level",
			TypeID:      "typeId",
			Title:       "title",
			Description: "description",
		},
		Recipes: RecipeFields{
			ID:         "id",
			CategoryID: "categoryId",
			Level:      "level",
		},
		Ingredients: IngredientFields{
			RecipeID: "recipeId",
			ItemID:   "itemId",
			Quantity: "quantity",
			Order:    "ingredientOrder",
		},
		Results: ResultFields{
			RecipeID: "recipeId",
			ItemID:   "resultItemId",
			Quantity: "resultQty",
		},
		States: StateFields{
			ID:          "id",
			Title:       "title",
			Description: "description",
		},
		Actions: ActionFields{
			ID:          "id",
			Effect:      "effect",
			Description: "description",
		},
		Categories: CategoryFields{
			ID:    "id",
			Title: "title",
		},
		EquipmentTypes: EquipmentTypeFields{
			ID:       "id",
			ParentID: "parentId",
			Title:    "title",
		},
	}
}

func init() {
	Register("current", Current)
	Register("legacy", Legacy)
}
