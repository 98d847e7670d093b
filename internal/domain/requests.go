package domain

// LoginRequest is the credential exchange payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RemoteUser is the account shape some backend versions return under "user".
type RemoteUser struct {
	ID        string `json:"id"`
	TeacherID int64  `json:"idEnseignant"`
	Username  string `json:"username"`
	LastName  string `json:"nomEnseignant"`
	FirstName string `json:"prenomEnseignant"`
	Email     string `json:"email"`
	Phone     string `json:"telephone"`
	Specialty string `json:"specialite"`
	Role      string `json:"role"`
	FullName  string `json:"fullName"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Token        string         `json:"token"`
	RefreshToken string         `json:"refreshToken,omitempty"`
	ExpiresIn    int64          `json:"expiresIn,omitempty"`
	Teacher      *TeacherDetail `json:"enseignant,omitempty"`
	User         *RemoteUser    `json:"user,omitempty"`
	Role         string         `json:"role,omitempty"`
}

type CreateTeacherRequest struct {
	LastName  string `json:"nomEnseignant" validate:"required"`
	FirstName string `json:"prenomEnseignant" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"telephone"`
	Specialty string `json:"specialite"`
	Password  string `json:"password,omitempty"`
}

type UpdateTeacherRequest struct {
	ID        int64  `json:"idEnseignant" validate:"required,gt=0"`
	LastName  string `json:"nomEnseignant,omitempty"`
	FirstName string `json:"prenomEnseignant,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"telephone,omitempty"`
	Specialty string `json:"specialite,omitempty"`
}

type CreateFormationRequest struct {
	Code          string `json:"codeFormation" validate:"required"`
	Name          string `json:"nomFormation" validate:"required"`
	Description   string `json:"description"`
	Level         string `json:"niveau" validate:"required"`
	DurationHours int    `json:"dureeHeures" validate:"gt=0"`
	ResponsibleID int64  `json:"responsableId" validate:"required,gt=0"`
}

type UpdateFormationRequest struct {
	ID            int64  `json:"idFormation" validate:"required,gt=0"`
	Code          string `json:"codeFormation,omitempty"`
	Name          string `json:"nomFormation,omitempty"`
	Description   string `json:"description,omitempty"`
	Level         string `json:"niveau,omitempty"`
	DurationHours int    `json:"dureeHeures,omitempty" validate:"gte=0"`
	ResponsibleID int64  `json:"responsableId,omitempty" validate:"gte=0"`
}

type CreateRoomRequest struct {
	Code      string `json:"codeSalle" validate:"required"`
	Name      string `json:"nomSalle" validate:"required"`
	Capacity  int    `json:"capacite" validate:"gt=0"`
	Available *bool  `json:"disponibilite,omitempty"`
	Type      string `json:"typeSalle" validate:"required"`
	Building  string `json:"batiment"`
	Floor     string `json:"etage"`
	Equipment string `json:"equipements"`
}

type UpdateRoomRequest struct {
	Code      string `json:"codeSalle" validate:"required"`
	Name      string `json:"nomSalle,omitempty"`
	Capacity  int    `json:"capacite,omitempty" validate:"gte=0"`
	Available *bool  `json:"disponibilite,omitempty"`
	Type      string `json:"typeSalle,omitempty"`
	Building  string `json:"batiment,omitempty"`
	Floor     string `json:"etage,omitempty"`
	Equipment string `json:"equipements,omitempty"`
}

type CreateEquipmentRequest struct {
	Code            string        `json:"codeMateriel" validate:"required"`
	Available       *bool         `json:"disponibilite,omitempty"`
	Brand           string        `json:"marque" validate:"required"`
	Model           string        `json:"modele" validate:"required"`
	Condition       string        `json:"etat"`
	AcquisitionDate Date          `json:"dateAcquisition,omitzero"`
	Location        string        `json:"localisation"`
	Kind            EquipmentKind `json:"type" validate:"required,oneof=ORDINATEUR VIDEO_PROJECTEUR"`

	Processor       string `json:"processeur,omitempty"`
	RAM             string `json:"ram,omitempty"`
	Storage         string `json:"stockage,omitempty"`
	ScreenSize      string `json:"tailleEcran,omitempty"`
	OperatingSystem string `json:"systemeExploitation,omitempty"`
	ComputerType    string `json:"typeOrdinateur,omitempty"`

	Description    string  `json:"description,omitempty"`
	Resolution     string  `json:"resolution,omitempty"`
	Brightness     string  `json:"luminosite,omitempty"`
	Connectivity   string  `json:"connectivite,omitempty"`
	Weight         float64 `json:"poids,omitempty" validate:"gte=0"`
	ProjectionType string  `json:"typeProjection,omitempty"`
}

type UpdateEquipmentRequest struct {
	Code      string `json:"codeMateriel" validate:"required"`
	Available *bool  `json:"disponibilite,omitempty"`
	Brand     string `json:"marque,omitempty"`
	Model     string `json:"modele,omitempty"`
	Condition string `json:"etat,omitempty"`
	Location  string `json:"localisation,omitempty"`
}

// CreateReservationRequest books a room (RoomCode) or an equipment item
// (EquipmentCode). Presence and ordering of the day and times are checked by
// the struct level validation registered in the application package.
type CreateReservationRequest struct {
	Day           Date      `json:"jour"`
	Start         ClockTime `json:"heureDebut"`
	End           ClockTime `json:"heureFin"`
	Motive        string    `json:"motif" validate:"required"`
	Participants  int       `json:"nombreParticipants" validate:"gte=1"`
	TeacherID     int64     `json:"enseignantId" validate:"required,gt=0"`
	RoomCode      string    `json:"salleCode,omitempty"`
	EquipmentCode string    `json:"materielCode,omitempty"`
	FormationID   int64     `json:"formationId,omitempty" validate:"gte=0"`
}

type UpdateReservationRequest struct {
	Number       int64              `json:"numero" validate:"required,gt=0"`
	Day          Date               `json:"jour,omitzero"`
	Start        ClockTime          `json:"heureDebut,omitzero"`
	End          ClockTime          `json:"heureFin,omitzero"`
	Motive       string             `json:"motif,omitempty"`
	Participants int                `json:"nombreParticipants,omitempty" validate:"gte=0"`
	RoomCode     string             `json:"salleCode,omitempty"`
	Status       *ReservationStatus `json:"statut,omitempty"`
}
