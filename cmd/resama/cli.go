package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/example/resama/internal/application"
	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/export"
	"github.com/example/resama/internal/recurrence"
	"github.com/example/resama/internal/views"
	"github.com/example/resama/internal/watch"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	stdinFD          = int(os.Stdin.Fd())

	errHelp          = errors.New("help provided")
	errLoginFailed   = errors.New("email ou mot de passe incorrect")
	errUnknownWeek   = errors.New("semaine inconnue")
	errUnknownFormat = errors.New("format d'export inconnu (json ou xlsx)")
)

type commandLine struct {
	app *app
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL                      - se connecter (mot de passe demandé ensuite)")
	fmt.Fprintln(cli.out, "  logout                                  - se déconnecter")
	fmt.Fprintln(cli.out, "  whoami                                  - afficher l'utilisateur connecté")
	fmt.Fprintln(cli.out, "  teachers [-search S] [-specialty S]     - lister les enseignants")
	fmt.Fprintln(cli.out, "  formations [-search S] [-level L]       - lister les formations")
	fmt.Fprintln(cli.out, "  rooms [-search S] [-type T] [-date D -start HH:MM -end HH:MM]")
	fmt.Fprintln(cli.out, "                                          - lister les salles")
	fmt.Fprintln(cli.out, "  equipment [-kind K] [-search S]         - lister le matériel")
	fmt.Fprintln(cli.out, "  reservations [-status S] [-from D] [-to D] [-search S] [-mine]")
	fmt.Fprintln(cli.out, "                                          - lister les réservations")
	fmt.Fprintln(cli.out, "  reserve-room -room CODE -date D -start HH:MM -end HH:MM -motive M [-until D -every weekly|daily]")
	fmt.Fprintln(cli.out, "  reserve-equipment -item CODE -date D -start HH:MM -end HH:MM -motive M")
	fmt.Fprintln(cli.out, "  confirm -n NUMERO | cancel -n NUMERO    - confirmer ou annuler une réservation")
	fmt.Fprintln(cli.out, "  weeks                                   - lister les semaines sélectionnables")
	fmt.Fprintln(cli.out, "  planning [-week W] [-room CODE] [-export] [-dir DIR]")
	fmt.Fprintln(cli.out, "  recap [-week W] [-export json|xlsx] [-dir DIR]")
	fmt.Fprintln(cli.out, "  serve [-port N] [-watch]                - servir l'API locale")
	fmt.Fprintln(cli.out, "  watch                                   - rafraîchir le tableau de bord périodiquement")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	rest := args[2:]
	switch args[1] {
	case "login":
		return cli.login(ctx, rest)
	case "logout":
		cli.app.session.Logout(ctx)
		fmt.Fprintln(cli.out, "Déconnecté")
		return nil
	case "whoami":
		return cli.whoami()
	case "teachers":
		return cli.teachers(ctx, rest)
	case "formations":
		return cli.formations(ctx, rest)
	case "rooms":
		return cli.rooms(ctx, rest)
	case "equipment":
		return cli.equipment(ctx, rest)
	case "reservations":
		return cli.reservations(ctx, rest)
	case "reserve-room":
		return cli.reserve(ctx, "reserve-room", rest)
	case "reserve-equipment":
		return cli.reserve(ctx, "reserve-equipment", rest)
	case "confirm", "cancel":
		return cli.transition(ctx, args[1], rest)
	case "weeks":
		return cli.weeks()
	case "planning":
		return cli.planning(ctx, rest)
	case "recap":
		return cli.recap(ctx, rest)
	case "serve":
		return cli.serve(ctx, rest)
	case "watch":
		return cli.watch(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) table() *tabwriter.Writer {
	return tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	loginCmd := cli.newFlagSet("login")
	email := loginCmd.String("email", "", "The account email. The password will be prompted next.")
	if err := parseFlags(loginCmd, args); err != nil {
		return err
	}
	if *email == "" {
		loginCmd.Usage()
		return errHelp
	}

	fmt.Fprint(cli.out, "Mot de passe :")
	pwd, err := readPasswordFunc(stdinFD)
	fmt.Fprintln(cli.out)
	if err != nil {
		return errors.Wrap(err, "read password")
	}
	if len(pwd) == 0 {
		loginCmd.Usage()
		return errHelp
	}

	user, ok := cli.app.session.Login(ctx, strings.ToLower(strings.TrimSpace(*email)), string(pwd))
	if !ok {
		return errLoginFailed
	}
	fmt.Fprintf(cli.out, "Connecté en tant que %s (%s)\n", user.DisplayName, user.Role)
	return nil
}

func (cli *commandLine) whoami() error {
	user, err := cli.app.session.RequireUser()
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s <%s>\n", user.DisplayName, user.Email)
	fmt.Fprintf(cli.out, "Rôle : %s\n", user.Role)
	if user.TokenExpiresAt != nil {
		fmt.Fprintf(cli.out, "Jeton valide jusqu'au %s\n", user.TokenExpiresAt.Local().Format("02/01/2006 15:04"))
	}
	return nil
}

func (cli *commandLine) teachers(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("teachers")
	search := fs.String("search", "", "Filter on name, email or specialty.")
	specialty := fs.String("specialty", "", "Keep one specialty.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	teachers, err := cli.app.queries.Teachers(ctx, domain.TeacherFilter{})
	if err != nil {
		return err
	}
	formations, err := cli.app.queries.Formations(ctx, domain.FormationFilter{})
	if err != nil {
		return err
	}

	tw := cli.table()
	fmt.Fprintln(tw, "ID\tNOM\tEMAIL\tSPÉCIALITÉ")
	for _, t := range views.FilterTeachers(teachers, *search, *specialty) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, t.FullName(), t.Email, t.Specialty)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	stats := views.TeacherStats(teachers, formations)
	fmt.Fprintf(cli.out, "%d enseignant(s), %d spécialité(s), %d responsable(s)\n", stats.Total, stats.Specialties, stats.Responsables)
	return nil
}

func (cli *commandLine) formations(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("formations")
	search := fs.String("search", "", "Filter on code, name or description.")
	level := fs.String("level", "", "Keep one level.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	formations, err := cli.app.queries.Formations(ctx, domain.FormationFilter{})
	if err != nil {
		return err
	}

	tw := cli.table()
	fmt.Fprintln(tw, "CODE\tNOM\tNIVEAU\tHEURES\tRESPONSABLE")
	for _, f := range views.FilterFormations(formations, *search, *level) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", f.Code, f.Name, f.Level, f.DurationHours, f.Responsible.FullName())
	}
	return tw.Flush()
}

func (cli *commandLine) rooms(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("rooms")
	var criteria views.RoomCriteria
	fs.StringVar(&criteria.Search, "search", "", "Filter on code, name or building.")
	fs.StringVar(&criteria.Type, "type", "", "Keep one room type.")
	fs.StringVar(&criteria.Equipment, "equipment", "", "Require an equipment.")
	fs.IntVar(&criteria.MinCapacity, "min-capacity", 0, "Minimum capacity.")
	date := fs.String("date", "", "Only rooms free on this day (YYYY-MM-DD).")
	start := fs.String("start", "", "Start of the free range (HH:MM).")
	end := fs.String("end", "", "End of the free range (HH:MM).")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var (
		rooms []domain.Room
		err   error
	)
	if *date != "" || *start != "" || *end != "" {
		query, qerr := availabilityQuery(*date, *start, *end)
		if qerr != nil {
			return qerr
		}
		rooms, err = cli.app.queries.AvailableRooms(ctx, query)
	} else {
		rooms, err = cli.app.queries.Rooms(ctx)
	}
	if err != nil {
		return err
	}

	tw := cli.table()
	fmt.Fprintln(tw, "CODE\tNOM\tCAPACITÉ\tTYPE\tBÂTIMENT\tDISPONIBLE")
	for _, r := range views.FilterRooms(rooms, criteria) {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", r.Code, r.Name, r.Capacity, r.Type, r.Building, yesNo(r.Available))
	}
	return tw.Flush()
}

func availabilityQuery(date, start, end string) (domain.RoomAvailabilityQuery, error) {
	var (
		query domain.RoomAvailabilityQuery
		err   error
	)
	if query.Day, err = domain.ParseDate(date); err != nil {
		return query, errors.Wrap(err, "date invalide")
	}
	if query.Start, err = domain.ParseClockTime(start); err != nil {
		return query, errors.Wrap(err, "heure de début invalide")
	}
	if query.End, err = domain.ParseClockTime(end); err != nil {
		return query, errors.Wrap(err, "heure de fin invalide")
	}
	return query, nil
}

func (cli *commandLine) equipment(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("equipment")
	kind := fs.String("kind", "", "ORDINATEUR or VIDEO_PROJECTEUR.")
	search := fs.String("search", "", "Filter on brand, model or code.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	criteria := views.EquipmentCriteria{Kind: domain.EquipmentKind(strings.ToUpper(*kind)), Search: *search}
	if criteria.Kind != "" && !criteria.Kind.Valid() {
		return errors.Errorf("type de matériel inconnu %q", *kind)
	}

	items, err := cli.app.queries.Equipment(ctx)
	if err != nil {
		return err
	}

	tw := cli.table()
	fmt.Fprintln(tw, "CODE\tTYPE\tMARQUE\tMODÈLE\tÉTAT\tLOCALISATION\tDISPONIBLE")
	for _, e := range views.FilterEquipment(items, criteria) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", e.Code, e.Kind, e.Brand, e.Model, e.Condition, e.Location, yesNo(e.Available))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	counts := views.EquipmentCounts(items)
	fmt.Fprintf(cli.out, "Ordinateurs : %d/%d disponibles, vidéoprojecteurs : %d/%d disponibles\n",
		counts[domain.KindComputer].Available, counts[domain.KindComputer].Total,
		counts[domain.KindProjector].Available, counts[domain.KindProjector].Total)
	return nil
}

func (cli *commandLine) reservations(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("reservations")
	status := fs.String("status", "", "CONFIRMEE, EN_ATTENTE or ANNULEE.")
	from := fs.String("from", "", "First day (YYYY-MM-DD).")
	to := fs.String("to", "", "Last day (YYYY-MM-DD).")
	search := fs.String("search", "", "Filter on motive, room, equipment or teacher.")
	mine := fs.Bool("mine", false, "Only the signed-in teacher's reservations.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	filter := domain.ReservationFilter{Status: domain.ReservationStatus(strings.ToUpper(*status))}
	var err error
	if *from != "" {
		if filter.From, err = domain.ParseDate(*from); err != nil {
			return errors.Wrap(err, "date de début invalide")
		}
	}
	if *to != "" {
		if filter.To, err = domain.ParseDate(*to); err != nil {
			return errors.Wrap(err, "date de fin invalide")
		}
	}
	criteria := views.ReservationCriteria{Search: *search}
	if *mine {
		user, err := cli.app.session.RequireUser()
		if err != nil {
			return err
		}
		criteria.TeacherID = user.PersonID
	}

	reservations, err := cli.app.queries.Reservations(ctx, filter)
	if err != nil {
		return err
	}

	tw := cli.table()
	fmt.Fprintln(tw, "N°\tJOUR\tHORAIRE\tMOTIF\tRESSOURCE\tENSEIGNANT\tSTATUT")
	for _, r := range views.FilterReservations(reservations, criteria) {
		fmt.Fprintf(tw, "%d\t%s\t%s-%s\t%s\t%s\t%s\t%s\n", r.Number, r.Day, r.Start, r.End, r.Motive, resourceOf(r), r.Teacher.FullName(), r.Status)
	}
	return tw.Flush()
}

func resourceOf(r domain.Reservation) string {
	switch {
	case r.Room != nil:
		return r.Room.Code
	case r.Equipment != nil:
		return r.Equipment.Code
	default:
		return "-"
	}
}

func (cli *commandLine) reserve(ctx context.Context, name string, args []string) error {
	fs := cli.newFlagSet(name)
	resourceFlag, resourceUsage := "room", "Room code."
	if name == "reserve-equipment" {
		resourceFlag, resourceUsage = "item", "Equipment code."
	}
	resource := fs.String(resourceFlag, "", resourceUsage)
	date := fs.String("date", "", "Day (YYYY-MM-DD).")
	start := fs.String("start", "", "Start time (HH:MM).")
	end := fs.String("end", "", "End time (HH:MM).")
	motive := fs.String("motive", "", "Motive of the reservation.")
	participants := fs.Int("participants", 1, "Number of participants.")
	formation := fs.Int64("formation", 0, "Formation id.")
	teacher := fs.Int64("teacher", 0, "Teacher id, defaults to the signed-in user.")
	until := fs.String("until", "", "Repeat the reservation up to this day (YYYY-MM-DD).")
	every := fs.String("every", "weekly", "Repetition: weekly or daily.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *resource == "" || *date == "" {
		fs.Usage()
		return errHelp
	}

	slot, err := availabilityQuery(*date, *start, *end)
	if err != nil {
		return err
	}
	req := domain.CreateReservationRequest{
		Day:          slot.Day,
		Start:        slot.Start,
		End:          slot.End,
		Motive:       *motive,
		Participants: *participants,
		TeacherID:    *teacher,
		FormationID:  *formation,
	}

	if name == "reserve-equipment" {
		req.EquipmentCode = *resource
	} else {
		req.RoomCode = *resource
	}

	if *until != "" {
		rule, err := seriesRule(*until, *every)
		if err != nil {
			return err
		}
		results, err := cli.app.queries.BookSeries(ctx, req, rule)
		for _, result := range results {
			cli.printBooking(result)
		}
		return err
	}

	var result application.BookingResult
	if name == "reserve-equipment" {
		result, err = cli.app.queries.BookEquipment(ctx, req)
	} else {
		result, err = cli.app.queries.BookRoom(ctx, req)
	}
	if err != nil {
		return err
	}
	cli.printBooking(result)
	return nil
}

func seriesRule(until, every string) (recurrence.Rule, error) {
	end, err := domain.ParseDate(until)
	if err != nil {
		return recurrence.Rule{}, errors.Wrap(err, "date de fin de série invalide")
	}
	freq, err := recurrence.ParseFrequency(every)
	if err != nil {
		return recurrence.Rule{}, errors.Wrapf(err, "répétition %q", every)
	}
	return recurrence.Rule{Frequency: freq, EndsOn: end}, nil
}

func (cli *commandLine) printBooking(result application.BookingResult) {
	r := result.Reservation
	fmt.Fprintf(cli.out, "Réservation n°%d créée pour le %s (%s)\n", r.Number, r.Day, r.Status)
	for _, c := range result.Conflicts {
		fmt.Fprintf(cli.out, "Conflit possible : réservation n°%d (%s %s %s-%s)\n", c.WithReservation, c.Type, c.Day, c.Start, c.End)
	}
}

func (cli *commandLine) transition(ctx context.Context, name string, args []string) error {
	fs := cli.newFlagSet(name)
	number := fs.Int64("n", 0, "Reservation number.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *number <= 0 {
		fs.Usage()
		return errHelp
	}

	if name == "confirm" {
		if err := cli.app.queries.ConfirmReservation(ctx, *number); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Réservation n°%d confirmée\n", *number)
		return nil
	}
	if err := cli.app.queries.CancelReservation(ctx, *number); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Réservation n°%d annulée\n", *number)
	return nil
}

func (cli *commandLine) availableWeeks() []views.Week {
	return views.GenerateWeeks(cli.app.now(), cli.app.cfg.PlanningWeeks)
}

func (cli *commandLine) selectWeek(selector string) (views.Week, error) {
	week, ok := views.FindWeek(cli.availableWeeks(), selector)
	if !ok {
		return views.Week{}, errUnknownWeek
	}
	return week, nil
}

func (cli *commandLine) weeks() error {
	tw := cli.table()
	fmt.Fprintln(tw, "ID\tSEMAINE\tDU\tAU")
	for _, w := range cli.availableWeeks() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", w.ID, w.Label, w.Start, w.End)
	}
	return tw.Flush()
}

func (cli *commandLine) planning(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("planning")
	weekSel := fs.String("week", "", "Week id, Monday or any day of the week.")
	room := fs.String("room", "", "Limit the planning to one room.")
	doExport := fs.Bool("export", false, "Write the planning as an xlsx workbook.")
	dir := fs.String("dir", ".", "Export directory.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	week, err := cli.selectWeek(*weekSel)
	if err != nil {
		return err
	}
	grid, err := cli.app.queries.Planning(ctx, week, *room)
	if err != nil {
		return err
	}

	fmt.Fprintln(cli.out, grid.Week.Label)
	fmt.Fprintf(cli.out, "Créneaux : %d, occupés : %d, libres : %d, taux d'occupation : %d%%\n",
		grid.Stats.Total, grid.Stats.Occupied, grid.Stats.Free, grid.Stats.OccupancyRate)
	tw := cli.table()
	for _, day := range grid.Days {
		for _, row := range day.Slots {
			for _, cell := range row.Cells {
				if !cell.Occupied || cell.Booking == nil {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s-%s\t%s\t%s (%s)\n", day.Day, day.Date, row.Slot.Start, row.Slot.End, cell.RoomCode, cell.Booking.Motive, cell.Booking.Teacher)
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !*doExport {
		return nil
	}
	return cli.writeFile(filepath.Join(*dir, export.PlanningFileName(grid)), func(w io.Writer) error {
		return export.WritePlanningXLSX(w, grid)
	})
}

func (cli *commandLine) recap(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("recap")
	weekSel := fs.String("week", "", "Week id, Monday or any day of the week.")
	format := fs.String("export", "", "Export format: json or xlsx.")
	dir := fs.String("dir", ".", "Export directory.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *format != "" && *format != "json" && *format != "xlsx" {
		return errUnknownFormat
	}

	week, err := cli.selectWeek(*weekSel)
	if err != nil {
		return err
	}
	overview, err := cli.app.queries.Overview(ctx, week, cli.app.now())
	if err != nil {
		return err
	}

	recap := overview.Recap
	fmt.Fprintf(cli.out, "Récapitulatif horaire de %s, %s\n", overview.User.DisplayName, recap.Week.Label)
	fmt.Fprintf(cli.out, "Total : %gh sur %d réservation(s)\n", recap.TotalHours, len(recap.Reservations))
	tw := cli.table()
	for _, day := range domain.TeachingDays {
		fmt.Fprintf(tw, "%s\t%gh\n", day, recap.HoursPerDay[day])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	courses := append([]views.Course(nil), recap.Courses...)
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].Hours > courses[j].Hours })
	tw = cli.table()
	for _, c := range courses {
		fmt.Fprintf(tw, "%s\t%gh\t%s\n", c.Name, c.Hours, c.Room)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Aujourd'hui : %d réservation(s), salles : %d, matériel : %d\n",
		overview.Global.ReservationsToday, overview.Global.RoomsBooked, overview.Global.EquipmentBorrowed)

	switch *format {
	case "json":
		return cli.writeFile(filepath.Join(*dir, export.RecapFileName(overview.User, recap, "json")), func(w io.Writer) error {
			return export.WriteRecapJSON(w, overview.User, recap)
		})
	case "xlsx":
		return cli.writeFile(filepath.Join(*dir, export.RecapFileName(overview.User, recap, "xlsx")), func(w io.Writer) error {
			return export.WriteRecapXLSX(w, overview.User, recap)
		})
	}
	return nil
}

func (cli *commandLine) writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create export file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close export file")
		}
	}()
	if err := write(f); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Fichier écrit : %s\n", path)
	return nil
}

func (cli *commandLine) newRefresher(onRefresh func(watch.Snapshot)) (*watch.Refresher, error) {
	return watch.New(watch.Config{
		Source:    cli.app.queries,
		Session:   cli.app.session,
		Schedule:  cli.app.cfg.WatchSchedule,
		Now:       cli.app.now,
		OnRefresh: onRefresh,
		Logger:    cli.app.logger,
	})
}

func (cli *commandLine) serve(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("serve")
	port := fs.Int("port", cli.app.cfg.HTTPPort, "Listening port.")
	withWatch := fs.Bool("watch", false, "Refresh the dashboard figures in the background.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *withWatch {
		refresher, err := cli.newRefresher(nil)
		if err != nil {
			return err
		}
		refresher.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = refresher.Stop(stopCtx)
		}()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           cli.app.router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cli.app.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	cli.app.logger.Info("resama API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve")
	}
	return nil
}

func (cli *commandLine) watch(ctx context.Context) error {
	if !cli.app.session.IsAuthenticated() {
		return application.ErrNotAuthenticated
	}
	refresher, err := cli.newRefresher(func(s watch.Snapshot) {
		fmt.Fprintf(cli.out, "[%s] %d réservation(s) aujourd'hui dont %d en attente, %d salle(s) réservée(s)\n",
			s.At.Format("15:04:05"), s.Today, s.Pending, s.Stats.RoomsBooked)
	})
	if err != nil {
		return err
	}
	refresher.Start()
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return refresher.Stop(stopCtx)
}

func yesNo(v bool) string {
	if v {
		return "oui"
	}
	return "non"
}

// describeError appends field messages to validation failures.
func describeError(err error) string {
	var verr *application.ValidationError
	if !errors.As(err, &verr) || len(verr.FieldErrors) == 0 {
		return err.Error()
	}
	fields := make([]string, 0, len(verr.FieldErrors))
	for field := range verr.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	var b strings.Builder
	b.WriteString("données invalides")
	for _, field := range fields {
		fmt.Fprintf(&b, "\n  %s : %s", field, verr.FieldErrors[field])
	}
	return b.String()
}
