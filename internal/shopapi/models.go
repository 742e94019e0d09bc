package shopapi

import (
	"net/url"
	"strconv"
)

type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug,omitempty"`
	Image string `json:"image,omitempty"`
}

type Product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug,omitempty"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Images      []string `json:"images"`
}

type Location struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug,omitempty"`
	Address     string  `json:"address,omitempty"`
	Image       string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
}

type User struct {
	ID     int    `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

// Write payloads. The binding tags are enforced by the gateway before a
// payload is forwarded.

type ProductInput struct {
	Title       string   `json:"title" binding:"required,min=3"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Description string   `json:"description" binding:"required,min=5"`
	Slug        string   `json:"slug" binding:"required,min=3"`
	CategoryID  int      `json:"categoryId" binding:"required,gt=0"`
	Images      []string `json:"images" binding:"max=3,dive,url"`
}

type CategoryInput struct {
	Name  string `json:"name" binding:"required,min=2"`
	Image string `json:"image,omitempty" binding:"omitempty,url"`
}

type LocationInput struct {
	Name    string `json:"name" binding:"required,min=3"`
	Slug    string `json:"slug" binding:"required,min=3"`
	Address string `json:"address" binding:"required,min=5"`
	Image   string `json:"image,omitempty" binding:"omitempty,url"`
}

type UserInput struct {
	Name     string `json:"name" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=admin user"`
	Avatar   string `json:"avatar,omitempty" binding:"omitempty,url"`
}

// ProductFilter narrows a product listing. Zero values are omitted.
type ProductFilter struct {
	Title      string   `form:"title"`
	PriceMin   *float64 `form:"price_min"`
	PriceMax   *float64 `form:"price_max"`
	CategoryID int      `form:"categoryId"`
	Offset     int      `form:"offset"`
	Limit      int      `form:"limit"`
}

func (f ProductFilter) Values() url.Values {
	q := url.Values{}
	if f.Title != "" {
		q.Set("title", f.Title)
	}
	if f.PriceMin != nil {
		q.Set("price_min", strconv.FormatFloat(*f.PriceMin, 'f', -1, 64))
	}
	if f.PriceMax != nil {
		q.Set("price_max", strconv.FormatFloat(*f.PriceMax, 'f', -1, 64))
	}
	if f.CategoryID > 0 {
		q.Set("categoryId", strconv.Itoa(f.CategoryID))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}
