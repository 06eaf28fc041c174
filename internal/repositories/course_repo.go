package repositories

import "github.com/learn2earn/backend/internal/models"

func (t *Tx) Courses() []models.Course {
	return t.db.Courses
}

func (t *Tx) GetCourse(id string) (*models.Course, bool) {
	for i := range t.db.Courses {
		if t.db.Courses[i].ID == id {
			return &t.db.Courses[i], true
		}
	}
	return nil, false
}

// SeedCourses installs courses only when the catalog is empty. It reports
// whether anything was written.
func (t *Tx) SeedCourses(courses []models.Course) bool {
	if len(t.db.Courses) > 0 {
		return false
	}
	t.db.Courses = append([]models.Course(nil), courses...)
	return true
}
