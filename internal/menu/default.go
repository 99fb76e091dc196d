package menu

// Default returns the built-in Family Food catalog.
func Default() *Catalog {
	return &Catalog{
		Info: Info{
			Name:        "Family Food",
			Kind:        "Fast-Food Halal",
			Address:     "Chanteloup-en-Brie, 77600",
			Phone:       "+33939037161",
			Email:       "contact@familyfood.fr",
			Hours:       "12h-14h30 / 19h-23h",
			Description: "Fast-food halal spécialisé en burgers, tacos et sandwichs",
		},
		Currency: "EUR",
		Categories: []Category{
			{Name: "Burgers", Items: []Item{
				{Name: "Classic Burger", Price: 850, Desc: "Boeuf, salade, tomate"},
				{Name: "Cheeseburger", Price: 900, Desc: "Boeuf, cheddar fondu"},
				{Name: "Bacon Burger", Price: 1050, Desc: "Boeuf, bacon croustillant"},
				{Name: "Chicken Burger", Price: 950, Desc: "Poulet pané croustillant"},
				{Name: "Fish Burger", Price: 900, Desc: "Filet de poisson pané"},
				{Name: "Veggie Burger", Price: 850, Desc: "Steak végétarien"},
			}},
			{Name: "Tacos", Items: []Item{
				{Name: "Tacos Poulet", Price: 750, Desc: "Poulet, frites, sauce"},
				{Name: "Tacos Viande", Price: 750, Desc: "Boeuf haché, frites"},
				{Name: "Tacos Mixte", Price: 850, Desc: "Poulet + viande"},
				{Name: "Tacos Cordon Bleu", Price: 800, Desc: "Cordon bleu émietté"},
				{Name: "Tacos XXL", Price: 1200, Desc: "Double portion + fromage"},
			}},
			{Name: "Sandwichs", Items: []Item{
				{Name: "Panini Poulet", Price: 650, Desc: "Poulet, fromage"},
				{Name: "Panini Jambon", Price: 600, Desc: "Jambon, emmental"},
				{Name: "Sandwich Américain", Price: 700, Desc: "Boeuf, oignons"},
				{Name: "Kebab", Price: 750, Desc: "Pain libanais, kebab, salade"},
			}},
			{Name: "Accompagnements", Items: []Item{
				{Name: "Frites", Price: 350, Desc: "Portion normale"},
				{Name: "Grandes Frites", Price: 450, Desc: "Grande portion"},
				{Name: "Nuggets 6", Price: 500, Desc: "6 nuggets de poulet"},
				{Name: "Onion Rings", Price: 450, Desc: "Rondelles d'oignons panées"},
				{Name: "Salade", Price: 300, Desc: "Salade verte"},
			}},
			{Name: "Boissons", Items: []Item{
				{Name: "Coca 33cl", Price: 250, Desc: "Coca-Cola"},
				{Name: "Sprite 33cl", Price: 250, Desc: "Sprite"},
				{Name: "Fanta 33cl", Price: 250, Desc: "Fanta Orange"},
				{Name: "Ice Tea 33cl", Price: 250, Desc: "Thé glacé pêche"},
				{Name: "Eau 50cl", Price: 200, Desc: "Eau minérale"},
			}},
			{Name: "Desserts", Items: []Item{
				{Name: "Tiramisu", Price: 400, Desc: "Tiramisu maison"},
				{Name: "Brownie", Price: 350, Desc: "Brownie chocolat"},
				{Name: "Muffin", Price: 300, Desc: "Muffin au choix"},
			}},
		},
		Combos: []Combo{
			{Name: "Menu Burger", Price: 1250, Contents: []string{"Burger au choix", "Frites", "Boisson"}},
			{Name: "Menu Tacos", Price: 1050, Contents: []string{"Tacos au choix", "Frites", "Boisson"}},
			{Name: "Menu Enfant", Price: 750, Contents: []string{"Nuggets 6", "Petites Frites", "Boisson", "Surprise"}},
		},
		Sauces: []string{
			"Blanche", "Harissa", "Algérienne", "Barbecue", "Mayo",
			"Ketchup", "Curry", "Samouraï", "Andalouse",
		},
		Payments: []string{"Espèces", "Carte Bancaire", "Ticket Restaurant"},
		Services: Services{
			Delivery: Delivery{
				Fee:       250,
				Minimum:   1200,
				FreeAbove: 3000,
				Time:      "25-35 minutes",
				Zone:      "Chanteloup-en-Brie + 5km",
			},
			Takeaway: Takeaway{DiscountPercent: 10, Time: "15-20 minutes"},
			DineIn:   DineIn{Time: "10-15 minutes"},
		},
	}
}
