package catalog

import "net/mail"

// Request/Response DTOs

// CreateProductRequest contains parameters for creating a product.
// AssetKeys optionally binds previously uploaded asset objects to the
// new product; each key is checked against storage before the record is
// persisted.
type CreateProductRequest struct {
	Name        string
	Description string
	Price       float64
	CoverImage  []byte
	AssetKeys   []string
}

// Validate checks the request without touching any external
// collaborator. It returns a ValidationError for the first violation.
func (r CreateProductRequest) Validate() error {
	if r.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if r.Description == "" {
		return &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if len(r.CoverImage) == 0 {
		return &ValidationError{Field: "coverImage", Reason: "must not be empty"}
	}
	if r.Price <= 0 {
		return &ValidationError{Field: "price", Reason: "must be positive"}
	}
	return nil
}

// SubscribeRequest contains parameters for recording a subscription
type SubscribeRequest struct {
	Email string
}

// Validate checks that the address is present and syntactically
// plausible.
func (r SubscribeRequest) Validate() error {
	if r.Email == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return &ValidationError{Field: "email", Reason: "must be a valid address"}
	}
	return nil
}

// UploadLink is a pre-authorized upload URL together with the object key
// it writes to
type UploadLink struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// DownloadLink is a pre-authorized download URL for one asset
type DownloadLink struct {
	URL string `json:"url"`
}
