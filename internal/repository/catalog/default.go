package catalog

import "atlas/internal/domain"

// Default returns the built-in excursion catalog. Prices are per person in EUR.
func Default() []domain.Activity {
	return []domain.Activity{
		{
			ID:           "agafay-desert-dinner",
			Title:        "Agafay Desert Sunset & Dinner",
			Type:         "Half Day",
			Duration:     "6 hours",
			Location:     "Agafay Desert",
			Description:  "Camel ride at sunset followed by a Berber dinner under the stars.",
			GroupPrice:   45,
			PrivatePrice: 85,
		},
		{
			ID:           "ourika-valley",
			Title:        "Ourika Valley & Atlas Mountains",
			Type:         "Day Trip",
			Duration:     "8 hours",
			Location:     "Ourika Valley",
			Description:  "Berber villages, argan cooperative and the Setti Fatma waterfalls.",
			GroupPrice:   35,
			PrivatePrice: 70,
		},
		{
			ID:           "essaouira-day-trip",
			Title:        "Essaouira Coastal Day Trip",
			Type:         "Day Trip",
			Duration:     "11 hours",
			Location:     "Essaouira",
			Description:  "The blue-and-white port town, its ramparts and fish market.",
			GroupPrice:   40,
			PrivatePrice: 90,
		},
		{
			ID:           "ouzoud-waterfalls",
			Title:        "Ouzoud Waterfalls",
			Type:         "Day Trip",
			Duration:     "10 hours",
			Location:     "Ouzoud",
			Description:  "The highest falls in North Africa and the Barbary macaques of the gorge.",
			GroupPrice:   38,
			PrivatePrice: 80,
		},
		{
			ID:           "hot-air-balloon",
			Title:        "Hot Air Balloon over Marrakech",
			Type:         "Experience",
			Duration:     "4 hours",
			Location:     "Marrakech Palmeraie",
			Description:  "Sunrise flight with a traditional breakfast in a Berber tent.",
			GroupPrice:   180,
			PrivatePrice: 450,
			ChildPolicy:  domain.ChildPolicySixtyPercent,
		},
		{
			ID:           "merzouga-3-days",
			Title:        "Merzouga Sahara 3-Day Tour",
			Type:         "Multi Day",
			Duration:     "3 days",
			Location:     "Merzouga",
			Description:  "Ait Benhaddou, the Dades gorges and a night in an Erg Chebbi desert camp.",
			GroupPrice:   160,
			PrivatePrice: 390,
			ChildPolicy:  domain.ChildPolicySixtyPercent,
		},
	}
}
