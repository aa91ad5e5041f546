package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"
	"time"

	"learnhub-storefront-api/database"
	"learnhub-storefront-api/models"
)

// Service holds the catalog snapshot the query layer reads. The snapshot is
// replaced wholesale on load/refresh; the slices handed out are never
// mutated, so readers can keep working on an old snapshot while a new one
// swaps in.
type Service struct {
	mu       sync.RWMutex
	courses  []models.Course
	products []models.Product
	items    []models.CatalogItem

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService builds an empty catalog. Seed pins the recommendation jitter;
// pass 0 to seed from the clock.
func NewService(seed int64) *Service {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Service{rng: rand.New(rand.NewSource(seed))}
}

// LoadFixtures reads the JSON catalog feed from disk.
func (s *Service) LoadFixtures(coursesPath, productsPath string) error {
	coursesData, err := os.ReadFile(coursesPath)
	if err != nil {
		return fmt.Errorf("failed to read courses fixture: %v", err)
	}
	var courses []models.Course
	if err := json.Unmarshal(coursesData, &courses); err != nil {
		return fmt.Errorf("failed to parse courses fixture: %v", err)
	}

	productsData, err := os.ReadFile(productsPath)
	if err != nil {
		return fmt.Errorf("failed to read products fixture: %v", err)
	}
	var products []models.Product
	if err := json.Unmarshal(productsData, &products); err != nil {
		return fmt.Errorf("failed to parse products fixture: %v", err)
	}

	s.SetCatalog(courses, products)
	log.Printf("Loaded catalog fixtures: %d courses, %d products", len(courses), len(products))
	return nil
}

// RefreshFromDB replaces the snapshot with the database rows. Called at boot
// after seeding and from the admin refresh endpoint.
func (s *Service) RefreshFromDB(db *database.Connection) error {
	courses, err := db.GetCourses()
	if err != nil {
		return fmt.Errorf("failed to refresh courses: %v", err)
	}
	products, err := db.GetProducts()
	if err != nil {
		return fmt.Errorf("failed to refresh products: %v", err)
	}

	s.SetCatalog(courses, products)
	log.Printf("Refreshed catalog from database: %d courses, %d products", len(courses), len(products))
	return nil
}

// SetCatalog installs a new snapshot and its normalized projection.
func (s *Service) SetCatalog(courses []models.Course, products []models.Product) {
	items := make([]models.CatalogItem, 0, len(courses)+len(products))
	for _, course := range courses {
		items = append(items, course.CatalogItem())
	}
	for _, product := range products {
		items = append(items, product.CatalogItem())
	}

	s.mu.Lock()
	s.courses = courses
	s.products = products
	s.items = items
	s.mu.Unlock()
}

func (s *Service) Courses() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courses
}

func (s *Service) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

func (s *Service) Items() []models.CatalogItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

func (s *Service) CourseItems() []models.CatalogItem {
	return s.itemsOfKind(models.KindCourse)
}

func (s *Service) ProductItems() []models.CatalogItem {
	return s.itemsOfKind(models.KindProduct)
}

func (s *Service) itemsOfKind(kind string) []models.CatalogItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.CatalogItem
	for _, item := range s.items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}

func (s *Service) CourseByID(id int) (models.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, course := range s.courses {
		if course.ID == id {
			return course, true
		}
	}
	return models.Course{}, false
}

func (s *Service) ProductByID(id int) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, product := range s.products {
		if product.ID == id {
			return product, true
		}
	}
	return models.Product{}, false
}

func (s *Service) ItemByID(kind string, id int) (models.CatalogItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.Kind == kind && item.ID == id {
			return item, true
		}
	}
	return models.CatalogItem{}, false
}

// Recommend returns the homepage recommendation list. The shared generator
// is guarded because rand.Rand is not safe for concurrent use.
func (s *Service) Recommend() []models.CatalogItem {
	items := s.Items()

	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return Recommendations(items, s.rng)
}
