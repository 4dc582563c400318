package models

// REST paths owned by the admissions backend.
const (
	PathFacultati = "/api/admin/facultati"
	PathPrograme  = "/api/admin/programe-studiu"
	PathCandidati = "/api/admin/candidati"
	PathDosare    = "/api/admin/dosare"
	PathOptiuni   = "/api/admin/optiuni"
	PathAdmini    = "/api/admin/admini"

	PathRezultate       = "/api/admin/rezultate"
	PathProcesare       = "/api/admin/procesare"
	PathRaportInscrieri = "/api/admin/rapoarte/inscrieri-program"
	PathRaportFacultati = "/api/admin/rapoarte/rezultate-facultati"

	PathLogin  = "/api/auth/login"
	PathMe     = "/api/auth/me"
	PathLogout = "/api/auth/logout"
)

// ResourcePaths are the CRUD collections every admin page loads on mount.
var ResourcePaths = []string{
	PathFacultati,
	PathPrograme,
	PathCandidati,
	PathDosare,
	PathOptiuni,
	PathAdmini,
}
