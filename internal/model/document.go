package model

import "time"

// Document is the root aggregate persisted as one JSON file. Every
// request loads it whole and mutations rewrite it whole.
type Document struct {
	Products   []Product         `json:"products"`
	Users      []Customer        `json:"users"`
	Admin      Admin             `json:"admin"`
	Settings   map[string]string `json:"settings"`
	NextID     int               `json:"nextId"`
	NextUserID int               `json:"nextUserId"`
}

// Product represents a catalog entry. ID and CreatedAt are immutable
// once assigned.
type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       string    `json:"price"`
	OldPrice    string    `json:"old_price"`
	Commission  string    `json:"commission"`
	Type        string    `json:"type"`
	Emoji       string    `json:"emoji"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Hot         bool      `json:"hot"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Customer represents a registered end user. Password holds the bcrypt
// hash; the document file is the storage format, so the hash is
// serialized — admin views must use summaries instead.
type Customer struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
}

// Admin is the singleton admin credential record
type Admin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AllocateProductID returns the next product ID and advances the
// counter. IDs are never reused, even after deletion.
func (d *Document) AllocateProductID() int {
	id := d.NextID
	d.NextID++
	return id
}

// AllocateUserID returns the next user ID and advances the counter
func (d *Document) AllocateUserID() int {
	id := d.NextUserID
	d.NextUserID++
	return id
}

// ProductIndex returns the position of the product with the given ID,
// or -1 when absent
func (d *Document) ProductIndex(id int) int {
	for i := range d.Products {
		if d.Products[i].ID == id {
			return i
		}
	}
	return -1
}

// UserByEmail returns the customer with the exact (case-sensitive)
// email, or nil
func (d *Document) UserByEmail(email string) *Customer {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return &d.Users[i]
		}
	}
	return nil
}

// DefaultSettings returns the branding settings seeded into a new store
func DefaultSettings() map[string]string {
	return map[string]string{
		"site_name":     "Weelu",
		"tagline":       "Your Marketplace",
		"primary_color": "#FF5C00",
		"accent_color":  "#FFD600",
		"bg_color":      "#0A0A0A",
		"hero_title1":   "Everything You Need,",
		"hero_title2":   "One Place to Shop",
		"hero_desc":     "Handpicked products from trusted brands plus exclusive deals.",
		"premium_price": "₹199",
	}
}
