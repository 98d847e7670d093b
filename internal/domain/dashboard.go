package domain

// DashboardStats is returned by GET /dashboard/stats.
type DashboardStats struct {
	ReservationsToday int `json:"reservationsAujourdhui"`
	RoomsBooked       int `json:"sallesReservees"`
	EquipmentBorrowed int `json:"materielEmprunte"`
	TotalTeachers     int `json:"totalEnseignants"`
	TotalFormations   int `json:"totalFormations"`
}

// ResponsableDashboard is returned by GET /dashboard/responsable/{id}.
type ResponsableDashboard struct {
	FormationCount             int         `json:"nombreFormations"`
	TeacherCount               int         `json:"nombreEnseignantsTotal"`
	NonResponsableTeacherCount int         `json:"nombreEnseignantsNonResponsables"`
	Formations                 []Formation `json:"formations"`
	Teachers                   []Teacher   `json:"enseignants"`
}

// FormationStats is returned by GET /formations/stats.
type FormationStats struct {
	TotalFormations      int            `json:"totalFormations"`
	ByLevel              map[string]int `json:"formationsParNiveau"`
	AverageDurationHours float64        `json:"moyenneDureeHeures"`
	ByResponsible        map[string]int `json:"formationsParResponsable"`
}

// TeacherDashboard is returned by GET /dashboard/enseignant/{id}. The backend
// does not pin its shape, so unknown members are kept raw.
type TeacherDashboard map[string]any
