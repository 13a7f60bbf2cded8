package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Visibility values for Recipe.Shared.
const (
	Public  = 0
	Private = 1
)

// StringList is a list of strings stored as a JSON array in a text column
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported tag list type %T", value)
	}
	if len(bytes) == 0 {
		*l = StringList{}
		return nil
	}

	return json.Unmarshal(bytes, (*[]string)(l))
}

// ParseTags splits a comma separated tag field, dropping blanks and duplicates.
func ParseTags(raw string) StringList {
	tags := StringList{}
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// String joins the tags back into the form representation.
func (l StringList) String() string {
	return strings.Join(l, ", ")
}

type Recipe struct {
	ID         uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Title      string          `gorm:"size:250;not null" json:"title"`
	Slug       string          `gorm:"size:250;not null;uniqueIndex" json:"slug"`
	AuthorID   uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author     *User           `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CourseID   uint            `gorm:"not null" json:"course_id"`
	Course     *Course         `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	CuisineID  uint            `gorm:"not null" json:"cuisine_id"`
	Cuisine    *Cuisine        `gorm:"foreignKey:CuisineID" json:"cuisine,omitempty"`
	Info       string          `gorm:"type:text" json:"info"`
	CookTime   int             `gorm:"not null" json:"cook_time"`
	Servings   int             `gorm:"not null" json:"servings"`
	Shared     int             `gorm:"not null;default:0" json:"shared"`
	Tags       StringList      `gorm:"type:text" json:"tags"`
	Directions string          `gorm:"type:text" json:"directions"`
	Photo      string          `gorm:"size:255" json:"photo,omitempty"`
	Embedding  pgvector.Vector `gorm:"type:vector(16);->:false;<-" json:"-"`

	Ingredients []Ingredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
	Rating      *Rating      `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"rating,omitempty"`
}

// BeforeCreate assigns a new id when the caller did not set one.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeSave refreshes the search embedding from the searchable text.
func (r *Recipe) BeforeSave(tx *gorm.DB) error {
	r.Embedding = Embed(r.SearchText())
	return nil
}

// SearchText is the text the embedding and keyword search run over.
func (r *Recipe) SearchText() string {
	return strings.Join([]string{r.Title, r.Info, r.Tags.String(), r.Directions}, " ")
}

// IsPrivate reports whether only the author may see the recipe.
func (r *Recipe) IsPrivate() bool {
	return r.Shared == Private
}

// VisibleTo reports whether viewer may see the recipe. A nil viewer is anonymous.
func (r *Recipe) VisibleTo(viewer *User) bool {
	if !r.IsPrivate() {
		return true
	}
	return viewer != nil && viewer.ID == r.AuthorID
}

// Ingredient is one ordered row of a recipe's ingredient list.
type Ingredient struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	Position    int       `gorm:"not null;default:0" json:"position"`
	Quantity    float64   `gorm:"not null" json:"quantity"`
	Measurement string    `gorm:"size:50" json:"measurement"`
	Title       string    `gorm:"size:250;not null" json:"title"`
}

// BeforeCreate assigns a new id when the caller did not set one.
func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
