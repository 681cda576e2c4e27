package domain

import (
	"net/mail"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// MaxContactMessage is the longest accepted contact message, in characters.
	MaxContactMessage = 5000
	minTruckYear      = 1950
)

// Validate checks a route and canonicalises its days in place.
func (r *Route) Validate() error {
	v := &ValidationError{}
	r.Neighborhood = strings.TrimSpace(r.Neighborhood)
	r.Schedule = strings.TrimSpace(r.Schedule)

	if r.Neighborhood == "" {
		v.Add("colonia", "required")
	}
	if r.Schedule == "" {
		v.Add("horario", "required")
	}
	if len(r.Days) == 0 {
		v.Add("dias", "at least one day is required")
	} else if days, err := NormalizeDays(r.Days); err != nil {
		v.Add("dias", err.Error())
	} else {
		r.Days = days
	}
	if !r.WasteType.Valid() {
		v.Add("tipo", "must be one of organico, inorganico, mixto")
	}
	return v.Err()
}

func (n *Neighborhood) Validate() error {
	v := &ValidationError{}
	n.Name = strings.TrimSpace(n.Name)
	if n.Name == "" {
		v.Add("name", "required")
	}
	return v.Err()
}

// Validate checks a truck against the current year. An empty status defaults to activo.
func (t *Truck) Validate(now time.Time) error {
	v := &ValidationError{}
	t.Plate = strings.ToUpper(strings.TrimSpace(t.Plate))
	t.Model = strings.TrimSpace(t.Model)
	if t.Status == "" {
		t.Status = TruckActive
	}

	if t.Plate == "" {
		v.Add("placa", "required")
	}
	if t.Model == "" {
		v.Add("modelo", "required")
	}
	if t.Year != nil && (*t.Year < minTruckYear || *t.Year > now.Year()+1) {
		v.Add("año", "out of range")
	}
	if !t.Status.Valid() {
		v.Add("estado", "must be one of activo, mantenimiento, inactivo")
	}
	return v.Err()
}

// Validate checks a driver. An empty status defaults to activo.
func (d *Driver) Validate() error {
	v := &ValidationError{}
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.NationalID = strings.TrimSpace(d.NationalID)
	d.License = strings.TrimSpace(d.License)
	if d.Status == "" {
		d.Status = DriverActive
	}

	if d.FirstName == "" {
		v.Add("nombre", "required")
	}
	if d.LastName == "" {
		v.Add("apellido", "required")
	}
	if d.NationalID == "" {
		v.Add("cedula", "required")
	}
	if d.License == "" {
		v.Add("licencia", "required")
	}
	if d.LicenseExpires != "" {
		if _, err := time.Parse(dateLayout, d.LicenseExpires); err != nil {
			v.Add("fecha_vencimiento_licencia", "must be YYYY-MM-DD")
		}
	}
	if !d.Status.Valid() {
		v.Add("estado", "must be one of activo, inactivo, suspendido")
	}
	return v.Err()
}

// Validate checks the fields of an assignment that do not need other records.
// An empty status defaults to activa.
func (a *Assignment) Validate() error {
	v := &ValidationError{}
	if a.Status == "" {
		a.Status = AssignmentActive
	}

	if a.TruckID == "" {
		v.Add("camion_id", "required")
	}
	if a.DriverID == "" {
		v.Add("chofer_id", "required")
	}
	if a.RouteID == "" {
		v.Add("ruta_id", "required")
	}

	start, err := time.Parse(dateLayout, a.StartDate)
	if err != nil {
		v.Add("fecha_inicio", "must be YYYY-MM-DD")
	}
	if a.EndDate != "" {
		end, err2 := time.Parse(dateLayout, a.EndDate)
		switch {
		case err2 != nil:
			v.Add("fecha_fin", "must be YYYY-MM-DD")
		case err == nil && end.Before(start):
			v.Add("fecha_fin", "must not be before fecha_inicio")
		}
	}

	from, err := time.Parse(timeLayout, a.StartTime)
	if err != nil {
		v.Add("horario_inicio", "must be HH:MM")
	}
	to, err2 := time.Parse(timeLayout, a.EndTime)
	if err2 != nil {
		v.Add("horario_fin", "must be HH:MM")
	}
	if err == nil && err2 == nil && !from.Before(to) {
		v.Add("horario_fin", "must be after horario_inicio")
	}

	if len(a.Days) == 0 {
		v.Add("dias_asignados", "at least one day is required")
	} else if days, err := NormalizeDays(a.Days); err != nil {
		v.Add("dias_asignados", err.Error())
	} else {
		a.Days = days
	}
	if !a.Status.Valid() {
		v.Add("estado", "must be one of activa, suspendida, finalizada")
	}
	return v.Err()
}

func (a *Article) Validate() error {
	v := &ValidationError{}
	a.Title = strings.TrimSpace(a.Title)
	a.Summary = strings.TrimSpace(a.Summary)
	a.Author = strings.TrimSpace(a.Author)
	a.Category = strings.TrimSpace(a.Category)

	if a.Title == "" {
		v.Add("titulo", "required")
	}
	if a.Summary == "" {
		v.Add("resumen", "required")
	}
	if strings.TrimSpace(a.Body) == "" {
		v.Add("contenido", "required")
	}
	if a.Author == "" {
		v.Add("autor", "required")
	}
	if a.Category == "" {
		v.Add("categoria", "required")
	}
	return v.Err()
}

// Validate checks a contact request and lowercases its email.
func (c *ContactRequest) Validate() error {
	v := &ValidationError{}
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Message = strings.TrimSpace(c.Message)

	if c.Name == "" {
		v.Add("nombre", "required")
	}
	if c.Email == "" {
		v.Add("email", "required")
	} else if addr, err := mail.ParseAddress(c.Email); err != nil || addr.Address != c.Email {
		v.Add("email", "invalid address")
	}
	if !slices.Contains(ContactSubjects, c.Subject) {
		v.Add("asunto", "unknown subject")
	}
	if !slices.Contains(ContactDepartments, c.Department) {
		v.Add("departamento", "unknown department")
	}
	if c.Message == "" {
		v.Add("mensaje", "required")
	} else if utf8.RuneCountInString(c.Message) > MaxContactMessage {
		v.Add("mensaje", "too long")
	}
	return v.Err()
}
