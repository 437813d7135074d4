package species

// catalog lists popular houseplants used when no upstream API is available.
var catalog = []Species{
	{
		ID:             "houseplant-1",
		Name:           "Fiddle Leaf Fig",
		ScientificName: "Ficus lyrata",
		Family:         "Moraceae",
		Genus:          "Ficus",
		ImageURL:       imageTree,
		Distribution:   "Tropical West Africa",
	},
	{
		ID:             "houseplant-2",
		Name:           "Snake Plant",
		ScientificName: "Sansevieria trifasciata",
		Family:         "Asparagaceae",
		Genus:          "Sansevieria",
		ImageURL:       imageSucculent,
		Distribution:   "West Africa",
	},
	{
		ID:             "houseplant-3",
		Name:           "Pothos",
		ScientificName: "Epipremnum aureum",
		Family:         "Araceae",
		Genus:          "Epipremnum",
		ImageURL:       imageTropical,
		Distribution:   "Southeast Asia",
	},
	{
		ID:             "houseplant-4",
		Name:           "Monstera Deliciosa",
		ScientificName: "Monstera deliciosa",
		Family:         "Araceae",
		Genus:          "Monstera",
		ImageURL:       imageTropical,
		Distribution:   "Central America",
		Edible:         true,
	},
	{
		ID:             "houseplant-5",
		Name:           "Rubber Plant",
		ScientificName: "Ficus elastica",
		Family:         "Moraceae",
		Genus:          "Ficus",
		ImageURL:       imageTree,
		Distribution:   "Southeast Asia",
	},
	{
		ID:             "houseplant-6",
		Name:           "Peace Lily",
		ScientificName: "Spathiphyllum",
		Family:         "Araceae",
		Genus:          "Spathiphyllum",
		ImageURL:       imageFlowering,
		Distribution:   "Central and South America",
	},
	{
		ID:             "houseplant-7",
		Name:           "ZZ Plant",
		ScientificName: "Zamioculcas zamiifolia",
		Family:         "Araceae",
		Genus:          "Zamioculcas",
		ImageURL:       imageTropical,
		Distribution:   "East Africa",
	},
	{
		ID:             "houseplant-8",
		Name:           "Chinese Evergreen",
		ScientificName: "Aglaonema",
		Family:         "Araceae",
		Genus:          "Aglaonema",
		ImageURL:       imageTropical,
		Distribution:   "Southeast Asia",
	},
	{
		ID:             "houseplant-9",
		Name:           "Philodendron",
		ScientificName: "Philodendron",
		Family:         "Araceae",
		Genus:          "Philodendron",
		ImageURL:       imageTropical,
		Distribution:   "Central and South America",
	},
	{
		ID:             "houseplant-10",
		Name:           "Aloe Vera",
		ScientificName: "Aloe vera",
		Family:         "Asphodelaceae",
		Genus:          "Aloe",
		ImageURL:       imageSucculent,
		Distribution:   "Arabian Peninsula",
		Edible:         true,
	},
	{
		ID:             "houseplant-11",
		Name:           "Weeping Fig",
		ScientificName: "Ficus benjamina",
		Family:         "Moraceae",
		Genus:          "Ficus",
		ImageURL:       imageTree,
		Distribution:   "Southeast Asia",
	},
	{
		ID:             "houseplant-12",
		Name:           "Spider Plant",
		ScientificName: "Chlorophytum comosum",
		Family:         "Asparagaceae",
		Genus:          "Chlorophytum",
		ImageURL:       imageFern,
		Distribution:   "South Africa",
	},
	{
		ID:             "houseplant-13",
		Name:           "Jade Plant",
		ScientificName: "Crassula ovata",
		Family:         "Crassulaceae",
		Genus:          "Crassula",
		ImageURL:       imageSucculent,
		Distribution:   "South Africa",
	},
	{
		ID:             "houseplant-14",
		Name:           "String of Pearls",
		ScientificName: "Senecio rowleyanus",
		Family:         "Asteraceae",
		Genus:          "Senecio",
		ImageURL:       imageSucculent,
		Distribution:   "Southwest Africa",
	},
	{
		ID:             "houseplant-15",
		Name:           "Boston Fern",
		ScientificName: "Nephrolepis exaltata",
		Family:         "Nephrolepidaceae",
		Genus:          "Nephrolepis",
		ImageURL:       imageFern,
		Distribution:   "Tropical regions worldwide",
	},
	{
		ID:             "houseplant-16",
		Name:           "Bird of Paradise",
		ScientificName: "Strelitzia reginae",
		Family:         "Strelitziaceae",
		Genus:          "Strelitzia",
		ImageURL:       imageFlowering,
		Distribution:   "South Africa",
	},
	{
		ID:             "houseplant-17",
		Name:           "Calathea",
		ScientificName: "Calathea",
		Family:         "Marantaceae",
		Genus:          "Calathea",
		ImageURL:       imageTropical,
		Distribution:   "Tropical Americas",
	},
	{
		ID:             "houseplant-18",
		Name:           "Dracaena",
		ScientificName: "Dracaena",
		Family:         "Asparagaceae",
		Genus:          "Dracaena",
		ImageURL:       imageFern,
		Distribution:   "Africa, Asia, Central America",
	},
	{
		ID:             "houseplant-19",
		Name:           "Pilea",
		ScientificName: "Pilea peperomioides",
		Family:         "Urticaceae",
		Genus:          "Pilea",
		ImageURL:       imageSucculent,
		Distribution:   "China",
	},
	{
		ID:             "houseplant-20",
		Name:           "Cactus",
		ScientificName: "Cactaceae",
		Family:         "Cactaceae",
		Genus:          "Various",
		ImageURL:       imageSucculent,
		Distribution:   "Americas",
	},
}
