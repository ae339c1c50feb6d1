package roster

// Sample returns the built-in demo roster used when no roster file can be
// loaded. The 2024 labels are grid codes so the demo starts with placements.
func Sample() []Employee {
	return []Employee{
		{
			UserID:          "1",
			PRGroup2025:     "GroupA",
			FirstName:       "John (Sample)",
			LastName:        "Doe",
			CurrentPosition: "Developer",
			PR2024:          SomeFloat(4.5),
			User9Box2024:    SomeString("1A"),
			Department:      SomeString("Engineering"),
		},
		{
			UserID:          "2",
			PRGroup2025:     "GroupB",
			FirstName:       "Jane (Sample)",
			LastName:        "Smith",
			CurrentPosition: "Designer",
			PR2024:          SomeFloat(4.2),
			User9Box2024:    SomeString("2B"),
			Department:      SomeString("Design"),
		},
	}
}
