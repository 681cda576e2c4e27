package domain

import (
	"time"
)

// WasteType classifies what a route collects.
type WasteType string

const (
	WasteOrganic   WasteType = "organico"
	WasteInorganic WasteType = "inorganico"
	WasteMixed     WasteType = "mixto"
)

// Valid reports whether t is a known waste type.
func (t WasteType) Valid() bool {
	switch t {
	case WasteOrganic, WasteInorganic, WasteMixed:
		return true
	}
	return false
}

// Route is a scheduled collection route through one neighborhood.
type Route struct {
	ID           string    `json:"id"`
	Neighborhood string    `json:"colonia"`
	Schedule     string    `json:"horario"`
	Days         []string  `json:"dias"`
	WasteType    WasteType `json:"tipo"`
	Path         Path      `json:"ruta"`
	Stops        Stops     `json:"puntos_especificos,omitempty"`
	Description  string    `json:"descripcion,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RouteSummary is a route plus derived geometry figures.
type RouteSummary struct {
	Route
	PointCount   int     `json:"point_count"`
	LengthMeters float64 `json:"length_meters"`
}

// Neighborhood (colonia) served by the collection service.
type Neighborhood struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TruckStatus is the operational state of a truck.
type TruckStatus string

const (
	TruckActive      TruckStatus = "activo"
	TruckMaintenance TruckStatus = "mantenimiento"
	TruckInactive    TruckStatus = "inactivo"
)

func (s TruckStatus) Valid() bool {
	switch s {
	case TruckActive, TruckMaintenance, TruckInactive:
		return true
	}
	return false
}

// Truck (camión) of the collection fleet.
type Truck struct {
	ID        string      `json:"id"`
	Plate     string      `json:"placa"`
	Model     string      `json:"modelo"`
	Year      *int        `json:"año,omitempty"`
	Capacity  string      `json:"capacidad,omitempty"`
	Status    TruckStatus `json:"estado"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// DriverStatus is the employment state of a driver.
type DriverStatus string

const (
	DriverActive    DriverStatus = "activo"
	DriverInactive  DriverStatus = "inactivo"
	DriverSuspended DriverStatus = "suspendido"
)

func (s DriverStatus) Valid() bool {
	switch s {
	case DriverActive, DriverInactive, DriverSuspended:
		return true
	}
	return false
}

// Driver (chofer) of a collection truck.
type Driver struct {
	ID             string       `json:"id"`
	FirstName      string       `json:"nombre"`
	LastName       string       `json:"apellido"`
	NationalID     string       `json:"cedula"`
	Phone          string       `json:"telefono,omitempty"`
	License        string       `json:"licencia"`
	LicenseExpires string       `json:"fecha_vencimiento_licencia,omitempty"` // YYYY-MM-DD
	Status         DriverStatus `json:"estado"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// AssignmentStatus is the lifecycle state of an assignment.
type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "activa"
	AssignmentSuspended AssignmentStatus = "suspendida"
	AssignmentFinished  AssignmentStatus = "finalizada"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentActive, AssignmentSuspended, AssignmentFinished:
		return true
	}
	return false
}

// Assignment binds a truck and a driver to a route for a date range.
type Assignment struct {
	ID        string           `json:"id"`
	TruckID   string           `json:"camion_id"`
	DriverID  string           `json:"chofer_id"`
	RouteID   string           `json:"ruta_id"`
	StartDate string           `json:"fecha_inicio"`        // YYYY-MM-DD
	EndDate   string           `json:"fecha_fin,omitempty"` // YYYY-MM-DD
	StartTime string           `json:"horario_inicio"`      // HH:MM
	EndTime   string           `json:"horario_fin"`         // HH:MM
	Days      []string         `json:"dias_asignados"`
	Status    AssignmentStatus `json:"estado"`
	Notes     string           `json:"observaciones,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Article is an educational post. Body holds the raw markup.
type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"titulo"`
	Summary     string     `json:"resumen"`
	Body        string     `json:"contenido"`
	Author      string     `json:"autor"`
	Category    string     `json:"categoria"`
	PublishedAt *time.Time `json:"fecha_publicacion,omitempty"`
	Image       string     `json:"imagen,omitempty"`
	Published   bool       `json:"published"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ArticlePage is a published article with its rendered body.
type ArticlePage struct {
	Article Article   `json:"article"`
	HTML    string    `json:"html"`
	Related []Article `json:"related"`
}

// Role is an application role.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// Profile mirrors an identity-provider user.
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserRole grants a role to a user. Email and DisplayName are filled from the
// user's profile on listing.
type UserRole struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Role        Role      `json:"role"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContactStatus tracks delivery of a contact request.
type ContactStatus string

const (
	ContactReceived  ContactStatus = "received"
	ContactForwarded ContactStatus = "forwarded"
	ContactFailed    ContactStatus = "failed"
)

// ContactSubjects lists the accepted contact subjects.
var ContactSubjects = []string{
	"ruta-recoleccion",
	"horarios",
	"reporte-problema",
	"sugerencia",
	"programa-ambiental",
	"otro",
}

// ContactDepartments lists the departments a request can be routed to.
var ContactDepartments = []string{"ecologia", "sistemas", "servicios", "atencion", "otro"}

// ContactRequest is a citizen message routed to a department.
type ContactRequest struct {
	ID         string        `json:"id"`
	Name       string        `json:"nombre"`
	Email      string        `json:"email"`
	Phone      string        `json:"telefono,omitempty"`
	Subject    string        `json:"asunto"`
	Department string        `json:"departamento"`
	Message    string        `json:"mensaje"`
	Status     ContactStatus `json:"estado"`
	CreatedAt  time.Time     `json:"created_at"`
}

// RouteChangeOp names the kind of write behind a RouteChange.
type RouteChangeOp string

const (
	RouteCreated RouteChangeOp = "created"
	RouteUpdated RouteChangeOp = "updated"
	RouteDeleted RouteChangeOp = "deleted"
)

// RouteChange announces a write to the route collection.
type RouteChange struct {
	RouteID string        `json:"route_id"`
	Op      RouteChangeOp `json:"op"`
	At      time.Time     `json:"at"`
}
