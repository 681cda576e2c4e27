package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/autlan/recolecta/internal/adapters/postgres"
	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/core/usecases"
	"github.com/autlan/recolecta/internal/pkg/config"
	"github.com/autlan/recolecta/internal/pkg/geospatial"
	"github.com/autlan/recolecta/internal/pkg/logging"
)

// Seed file layout. Assignments refer to other rows by natural key.
type seedFile struct {
	Neighborhoods []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"neighborhoods"`
	Routes []struct {
		Neighborhood string       `yaml:"colonia"`
		Schedule     string       `yaml:"horario"`
		Days         []string     `yaml:"dias"`
		WasteType    string       `yaml:"tipo"`
		Description  string       `yaml:"descripcion"`
		Path         [][2]float64 `yaml:"ruta"`
		Stops        [][2]float64 `yaml:"puntos_especificos"`
	} `yaml:"routes"`
	Trucks []struct {
		Plate    string `yaml:"placa"`
		Model    string `yaml:"modelo"`
		Year     int    `yaml:"anio"`
		Capacity string `yaml:"capacidad"`
	} `yaml:"trucks"`
	Drivers []struct {
		FirstName      string `yaml:"nombre"`
		LastName       string `yaml:"apellido"`
		NationalID     string `yaml:"cedula"`
		Phone          string `yaml:"telefono"`
		License        string `yaml:"licencia"`
		LicenseExpires string `yaml:"vence"`
	} `yaml:"drivers"`
	Assignments []struct {
		Truck     string   `yaml:"camion"`
		Driver    string   `yaml:"chofer"`
		Route     string   `yaml:"ruta"`
		StartDate string   `yaml:"fecha_inicio"`
		StartTime string   `yaml:"horario_inicio"`
		EndTime   string   `yaml:"horario_fin"`
		Days      []string `yaml:"dias"`
	} `yaml:"assignments"`
	Articles []struct {
		Title    string `yaml:"titulo"`
		Summary  string `yaml:"resumen"`
		Body     string `yaml:"contenido"`
		Author   string `yaml:"autor"`
		Category string `yaml:"categoria"`
	} `yaml:"articles"`
}

func main() {
	cfg, err := config.Load("recolecta-seed")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text", cfg.Telemetry.ServiceName)

	path := "seed/seed.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read seed file: %v", err)
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		log.Fatalf("parse %s: %v", path, err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	routeRepo := postgres.NewRouteRepo(db)
	existing, err := routeRepo.List(ctx)
	if err != nil {
		log.Fatalf("list routes: %v", err)
	}
	if len(existing) > 0 {
		slog.Info("database already has routes, nothing to seed", "routes", len(existing))
		return
	}

	s := &seeder{
		neighborhoods: usecases.NewNeighborhoodService(postgres.NewNeighborhoodRepo(db)),
		routes:        usecases.NewRouteService(routeRepo, nil, nil),
		trucks:        usecases.NewTruckService(postgres.NewTruckRepo(db)),
		drivers:       usecases.NewDriverService(postgres.NewDriverRepo(db)),
		articles:      usecases.NewArticleService(postgres.NewArticleRepo(db), nil),
	}
	s.assignments = usecases.NewAssignmentService(postgres.NewAssignmentRepo(db),
		postgres.NewTruckRepo(db), postgres.NewDriverRepo(db), routeRepo)

	if err := s.run(ctx, &sf); err != nil {
		log.Fatalf("seed: %v", err)
	}
	slog.Info("seed complete",
		"neighborhoods", len(sf.Neighborhoods),
		"routes", len(sf.Routes),
		"trucks", len(sf.Trucks),
		"drivers", len(sf.Drivers),
		"assignments", len(sf.Assignments),
		"articles", len(sf.Articles),
	)
}

type seeder struct {
	neighborhoods *usecases.NeighborhoodService
	routes        *usecases.RouteService
	trucks        *usecases.TruckService
	drivers       *usecases.DriverService
	assignments   *usecases.AssignmentService
	articles      *usecases.ArticleService
}

func (s *seeder) run(ctx context.Context, sf *seedFile) error {
	for _, n := range sf.Neighborhoods {
		if err := s.neighborhoods.Create(ctx, &domain.Neighborhood{Name: n.Name, Description: n.Description}); err != nil {
			return fmt.Errorf("neighborhood %q: %w", n.Name, err)
		}
	}

	routeIDs := map[string]string{}
	for _, r := range sf.Routes {
		rt := &domain.Route{
			Neighborhood: r.Neighborhood,
			Schedule:     r.Schedule,
			Days:         r.Days,
			WasteType:    domain.WasteType(r.WasteType),
			Description:  r.Description,
		}
		for _, p := range r.Path {
			rt.Path = append(rt.Path, geospatial.Pair(p))
		}
		for _, p := range r.Stops {
			rt.Stops = append(rt.Stops, domain.GeoPoint{Lat: p[0], Lng: p[1]})
		}
		if err := s.routes.Create(ctx, rt); err != nil {
			return fmt.Errorf("route %q: %w", r.Neighborhood, err)
		}
		routeIDs[r.Neighborhood] = rt.ID
	}

	truckIDs := map[string]string{}
	for _, t := range sf.Trucks {
		tr := &domain.Truck{Plate: t.Plate, Model: t.Model, Capacity: t.Capacity, Status: domain.TruckActive}
		if t.Year > 0 {
			year := t.Year
			tr.Year = &year
		}
		if err := s.trucks.Create(ctx, tr); err != nil {
			return fmt.Errorf("truck %q: %w", t.Plate, err)
		}
		truckIDs[t.Plate] = tr.ID
	}

	driverIDs := map[string]string{}
	for _, d := range sf.Drivers {
		dr := &domain.Driver{
			FirstName:      d.FirstName,
			LastName:       d.LastName,
			NationalID:     d.NationalID,
			Phone:          d.Phone,
			License:        d.License,
			LicenseExpires: d.LicenseExpires,
			Status:         domain.DriverActive,
		}
		if err := s.drivers.Create(ctx, dr); err != nil {
			return fmt.Errorf("driver %q: %w", d.NationalID, err)
		}
		driverIDs[d.NationalID] = dr.ID
	}

	for _, a := range sf.Assignments {
		as := &domain.Assignment{
			TruckID:   truckIDs[a.Truck],
			DriverID:  driverIDs[a.Driver],
			RouteID:   routeIDs[a.Route],
			StartDate: a.StartDate,
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
			Days:      a.Days,
			Status:    domain.AssignmentActive,
		}
		if err := s.assignments.Create(ctx, as); err != nil {
			return fmt.Errorf("assignment %s/%s/%s: %w", a.Truck, a.Driver, a.Route, err)
		}
	}

	now := time.Now().UTC()
	for _, a := range sf.Articles {
		ar := &domain.Article{
			Title:       a.Title,
			Summary:     a.Summary,
			Body:        a.Body,
			Author:      a.Author,
			Category:    a.Category,
			Published:   true,
			PublishedAt: &now,
		}
		if err := s.articles.Create(ctx, ar); err != nil {
			return fmt.Errorf("article %q: %w", a.Title, err)
		}
	}
	return nil
}
