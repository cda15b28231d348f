package api

// Credentials identify a user at sign in.
type Credentials struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// LoginResponse carries the token, its expiry and the minimal profile
// returned by a successful login.
type LoginResponse struct {
	Token             string `json:"token"`
	Exp               int64  `json:"exp,omitempty"`
	UserID            int64  `json:"userId"`
	Username          string `json:"username,omitempty"`
	Email             string `json:"email,omitempty"`
	FirstName         string `json:"firstName,omitempty"`
	MiddleName        string `json:"middleName,omitempty"`
	LastName          string `json:"lastName,omitempty"`
	DisplayName       string `json:"displayName,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

type TokenResponse struct {
	Token  string `json:"token"`
	Exp    int64  `json:"exp"`
	UserID int64  `json:"userId"`
}

type RegisterRequest struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	LoginRedirectURL string `json:"loginRedirectURL"`
}

type RegisterResponse struct {
	UserID  int64  `json:"userId"`
	Message string `json:"message"`
}

type ResetPasswordRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
	Data     string `json:"data"`
	Password string `json:"password"`
}

// MessageResponse is the body of the recovery endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserDetails is the profile kept by the core service. Creator is set by
// the service once the record exists; it tells an update from a create.
type UserDetails struct {
	UserID            int64  `json:"userId"`
	FirstName         string `json:"firstName,omitempty"`
	MiddleName        string `json:"middleName,omitempty"`
	LastName          string `json:"lastName,omitempty"`
	DisplayName       string `json:"displayName,omitempty"`
	Email             string `json:"email,omitempty"`
	GenderID          *int64 `json:"genderId"`
	DateOfBirth       string `json:"dateOfBirth,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
	IsPrivatePicture  bool   `json:"isPrivatePicture"`
	Creator           int64  `json:"creator,omitempty"`
}

// Exists reports whether the record was loaded from the service.
func (d UserDetails) Exists() bool {
	return d.Creator != 0
}

type UserDetailsPage struct {
	Data    []UserDetails `json:"data"`
	HasMore bool          `json:"hasMore"`
}

type GenderType struct {
	GenderID   int64  `json:"genderId"`
	GenderName string `json:"genderName"`
	SortOrder  int    `json:"sortOrder"`
}

type TicketCategory struct {
	TicketCategoryID   int64  `json:"ticketCategoryId"`
	TicketCategoryName string `json:"ticketCategoryName"`
}

// CategoryQuery narrows the ticket categories suggested for a title.
// Either CustomerID or CustomerTypeID may be set, not both.
type CategoryQuery struct {
	TicketTitle    string
	Latitude       *float64
	Longitude      *float64
	CustomerID     int64
	CustomerTypeID int64
}

// Classification scopes an upload to a country and a domain (category).
type Classification struct {
	CountryISOCode string
	Domain         int
}

// UploadGrant is the short-lived authorisation to POST one file to storage.
type UploadGrant struct {
	PresignedURL string            `json:"presignedUrl"`
	Fields       map[string]string `json:"fields"`
	Exp          int64             `json:"exp"`
}

// ObjectURL is the address the stored object is known by once the
// transfer succeeded: the destination followed by the object key.
func (g UploadGrant) ObjectURL() string {
	return g.PresignedURL + g.Fields["key"]
}

// FileInfo describes the file being published.
type FileInfo struct {
	Name     string
	MIMEType string
	Size     int64
}
