package application

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	fr_translations "github.com/go-playground/validator/v10/translations/fr"

	"github.com/example/resama/internal/domain"
)

// custom struct level tags
const (
	dayRequiredTag     = "jour_requis"
	timeRequiredTag    = "heure_requise"
	endAfterStartTag   = "fin_apres_debut"
	roomOrEquipmentTag = "salle_ou_materiel"
	capacityTag        = "capacite"
	statusTag          = "statut"
)

var customMessages = map[string]string{
	dayRequiredTag:     "La date est obligatoire",
	timeRequiredTag:    "L'heure est obligatoire",
	endAfterStartTag:   "L'heure de fin doit être après l'heure de début",
	roomOrEquipmentTag: "Choisissez une salle ou un matériel",
	capacityTag:        "Le nombre de participants dépasse la capacité de la salle",
	statusTag:          "Statut inconnu",
}

// Validator runs the superficial pre-submission checks. The backend stays
// authoritative for every business rule.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator registers the French messages and the struct level rules.
func NewValidator() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	locale := fr.New()
	uni := ut.New(locale, locale)
	translator, _ := uni.GetTranslator("fr")
	_ = fr_translations.RegisterDefaultTranslations(validate, translator)

	// Report JSON names so field errors match the request payloads.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterStructValidation(createReservationRules, domain.CreateReservationRequest{})
	validate.RegisterStructValidation(updateReservationRules, domain.UpdateReservationRequest{})

	registerFn := func(ut.Translator) error { return nil }
	for tag := range customMessages {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustom)
	}

	return &Validator{validate: validate, translator: translator}
}

// Check validates value and returns a *ValidationError or nil.
func (v *Validator) Check(value any) error {
	err := v.validate.Struct(value)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	vErr := &ValidationError{}
	for _, fe := range fieldErrs {
		vErr.add(fe.Field(), fe.Translate(v.translator))
	}
	return vErr.errOrNil()
}

// CheckCapacity reports a participants overflow for a known room.
func (v *Validator) CheckCapacity(participants int, room domain.Room) error {
	if room.Capacity > 0 && participants > room.Capacity {
		vErr := &ValidationError{}
		vErr.add("nombreParticipants", customMessages[capacityTag])
		return vErr
	}
	return nil
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	if msg, ok := customMessages[fe.Tag()]; ok {
		return msg
	}
	return fe.Error()
}

func createReservationRules(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(domain.CreateReservationRequest)
	if !ok {
		return
	}
	if req.Day.IsZero() {
		sl.ReportError(req.Day, "jour", "Day", dayRequiredTag, "")
	}
	if req.Start.IsZero() {
		sl.ReportError(req.Start, "heureDebut", "Start", timeRequiredTag, "")
	}
	if req.End.IsZero() {
		sl.ReportError(req.End, "heureFin", "End", timeRequiredTag, "")
	}
	if !req.Start.IsZero() && !req.End.IsZero() && !req.Start.Before(req.End) {
		sl.ReportError(req.End, "heureFin", "End", endAfterStartTag, "")
	}
	hasRoom := strings.TrimSpace(req.RoomCode) != ""
	hasEquipment := strings.TrimSpace(req.EquipmentCode) != ""
	if hasRoom == hasEquipment {
		sl.ReportError(req.RoomCode, "salleCode", "RoomCode", roomOrEquipmentTag, "")
	}
}

func updateReservationRules(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(domain.UpdateReservationRequest)
	if !ok {
		return
	}
	if !req.Start.IsZero() && !req.End.IsZero() && !req.Start.Before(req.End) {
		sl.ReportError(req.End, "heureFin", "End", endAfterStartTag, "")
	}
	if req.Status != nil && !req.Status.Valid() {
		sl.ReportError(*req.Status, "statut", "Status", statusTag, "")
	}
}
