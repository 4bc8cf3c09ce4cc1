package routes

const (
	// Health
	Health = "/health"

	// Auth
	AuthSignIn  = "/api/v1/auth/sign-in"
	AuthSignOut = "/api/v1/auth/sign-out"
	AuthSession = "/api/v1/auth/session"

	// Buildings and dashboard
	Buildings                 = "/api/v1/buildings"
	BuildingMetrics           = "/api/v1/buildings/{buildingId}/metrics"
	BuildingMetricsMonthly    = "/api/v1/buildings/{buildingId}/metrics/monthly"
	BuildingMetricsApartments = "/api/v1/buildings/{buildingId}/metrics/apartments"

	// Apartments
	Apartments      = "/api/v1/buildings/{buildingId}/apartments"
	ApartmentUnlock = "/api/v1/buildings/{buildingId}/apartments/{apartmentId}/unlock"

	// Schedulings
	Schedulings        = "/api/v1/buildings/{buildingId}/schedulings"
	SchedulingsExport  = "/api/v1/buildings/{buildingId}/schedulings/export.xlsx"
	SchedulingAccess   = "/api/v1/schedulings/{schedulingId}/access"
	SchedulingAccessQR = "/api/v1/schedulings/{schedulingId}/access/qr.png"
)
