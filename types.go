package rudimedia

import "time"

// BlogPost is the content type owned by the backend API. The frontend never
// stores posts; it renders whatever the backend (or the embedded fallback
// dataset) returns.
type BlogPost struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Excerpt         string    `json:"excerpt"`
	Author          string    `json:"author"`
	Tags            []string  `json:"tags"`
	Published       bool      `json:"published"`
	MetaDescription string    `json:"meta_description"`
	MetaKeywords    string    `json:"meta_keywords"`
	FeaturedImage   string    `json:"featured_image,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// User is the identity record returned by the backend's identity check.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Credentials is the login form payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ContactMessage is the public contact form payload, forwarded to the
// backend as-is.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}
