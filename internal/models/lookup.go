package models

// Course is a lookup entry such as "Main" or "Dessert".
type Course struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Title string `gorm:"size:100;not null;uniqueIndex" json:"title"`
}

// Cuisine is a lookup entry such as "Mexican" or "Thai".
type Cuisine struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Title string `gorm:"size:100;not null;uniqueIndex" json:"title"`
}

// DefaultCourses are seeded into a fresh database.
var DefaultCourses = []string{"Appetizer", "Main", "Side", "Dessert", "Breakfast", "Soup", "Salad", "Drink"}

// DefaultCuisines are seeded into a fresh database.
var DefaultCuisines = []string{"American", "Mexican", "Italian", "French", "Chinese", "Indian", "Thai", "Japanese", "Mediterranean"}
