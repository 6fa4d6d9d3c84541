package commerce

import "context"

// SeedSampleCatalog loads the demo storefront's products and two starter
// reviews so the sandbox is explorable out of the box. Prices are minor
// currency units.
func SeedSampleCatalog(store *InMemoryStore) {
	samples := []Product{
		{
			Name:        "Wireless Headphones",
			Description: "Premium wireless headphones with noise cancellation",
			Price:       12999,
			ImageURL:    "https://images.unsplash.com/photo-1505740420928-5e560c06d30e",
			Category:    "Electronics",
			Rating:      4,
			ReviewCount: 128,
		},
		{
			Name:        "Smart Watch",
			Description: "Fitness tracker with heart rate monitoring",
			Price:       8999,
			ImageURL:    "https://images.unsplash.com/photo-1546868871-7041f2a55e12",
			Category:    "Electronics",
			Rating:      4,
			ReviewCount: 94,
		},
		{
			Name:        "Bluetooth Speaker",
			Description: "Waterproof portable speaker with 24-hour battery",
			Price:       7999,
			ImageURL:    "https://images.unsplash.com/photo-1585386959984-a4155224a1ad",
			Category:    "Electronics",
			Rating:      5,
			ReviewCount: 156,
		},
		{
			Name:        "Laptop Backpack",
			Description: "Anti-theft design with USB charging port",
			Price:       5999,
			ImageURL:    "https://images.unsplash.com/photo-1588872657578-7efd1f1555ed",
			Category:    "Accessories",
			Rating:      3,
			ReviewCount: 73,
		},
		{
			Name:        "Mechanical Keyboard",
			Description: "RGB mechanical keyboard with customizable switches",
			Price:       9999,
			ImageURL:    "https://images.unsplash.com/photo-1595044778792-9c2fc2d79fa5",
			Category:    "Electronics",
			Rating:      4,
			ReviewCount: 112,
		},
		{
			Name:        "Wireless Mouse",
			Description: "Ergonomic wireless mouse with long battery life",
			Price:       3999,
			ImageURL:    "https://images.unsplash.com/photo-1615663245857-ac93bb7c39e7",
			Category:    "Electronics",
			Rating:      4,
			ReviewCount: 89,
		},
		{
			Name:        "USB-C Hub",
			Description: "Multiport adapter with HDMI, USB-A, and SD card slots",
			Price:       4999,
			ImageURL:    "https://images.unsplash.com/photo-1636031452966-08f28ccfb151",
			Category:    "Electronics",
			Rating:      4,
			ReviewCount: 63,
		},
		{
			Name:        "Phone Stand",
			Description: "Adjustable aluminum phone stand for desk or bedside",
			Price:       1999,
			ImageURL:    "https://images.unsplash.com/photo-1586953208448-b95a79798f07",
			Category:    "Accessories",
			Rating:      5,
			ReviewCount: 42,
		},
	}

	for _, p := range samples {
		store.AddProduct(p)
	}

	// Starter reviews for the first product. CreateReview recomputes the
	// product aggregate, overwriting the marketing numbers above with the
	// real derived values.
	starters := []InsertReview{
		{
			ProductID: 1,
			UserID:    0,
			Username:  "John D.",
			Title:     "Amazing sound quality!",
			Content:   "These headphones exceeded my expectations. The sound is crystal clear and the noise cancellation works perfectly, even in noisy environments.",
			Rating:    5,
		},
		{
			ProductID: 1,
			UserID:    0,
			Username:  "Sarah M.",
			Title:     "Comfortable but a bit heavy",
			Content:   "The sound quality is excellent, but I find them a bit heavy for extended wear. Battery life is impressive though!",
			Rating:    4,
		},
	}
	for _, r := range starters {
		_, _ = store.CreateReview(context.Background(), r)
	}
}
