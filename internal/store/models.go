package store

import "time"

// User es una cuenta de la plataforma.
type User struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string // vacío para cuentas solo-OAuth
	Provider      string // "" | "google"
	ProviderID    string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Course es un curso publicado.
type Course struct {
	ID          string
	Title       string
	Slug        string
	Description string
	AuthorID    string
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Roadmap es una ruta de aprendizaje.
type Roadmap struct {
	ID          string
	Title       string
	Slug        string
	Description string
	Steps       []byte // JSON con los pasos; el server no lo interpreta
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DocumentKind clasifica los documentos subidos.
type DocumentKind string

const (
	DocPDF   DocumentKind = "pdf"
	DocEbook DocumentKind = "ebook"
	DocImage DocumentKind = "image"
)

// Document es la metadata de un archivo subido (pdf, ebook, imagen).
type Document struct {
	ID         string
	Kind       DocumentKind
	Title      string
	FileName   string
	StorageURL string
	SizeBytes  int64
	OwnerID    string
	CourseID   string // opcional
	CreatedAt  time.Time
}

// Discussion es un hilo de discusión.
type Discussion struct {
	ID        string
	Title     string
	Body      string
	AuthorID  string
	CourseID  string // opcional
	CreatedAt time.Time
}

// Reply es una respuesta dentro de un hilo.
type Reply struct {
	ID           string
	DiscussionID string
	AuthorID     string
	Body         string
	CreatedAt    time.Time
}

// Notification es una notificación por usuario.
type Notification struct {
	ID        string
	UserID    string
	Kind      string // "discussion_reply" | "course_update" | ...
	Title     string
	Body      string
	Link      string
	Read      bool
	CreatedAt time.Time
}

// Feedback es feedback enviado por un usuario.
type Feedback struct {
	ID        string
	UserID    string // opcional (anónimo permitido)
	Subject   string
	Body      string
	Rating    int
	CreatedAt time.Time
}
