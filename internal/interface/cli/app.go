// Package cli is the interactive numbered-menu front end of the gradebook.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/nilai-hub/student-grades/internal/application/command"
	"github.com/nilai-hub/student-grades/internal/application/query"
	"github.com/nilai-hub/student-grades/internal/domain/shared"
	"github.com/nilai-hub/student-grades/internal/domain/student"
	"github.com/nilai-hub/student-grades/pkg/logger"
)

// errQuit ends the menu loop.
var errQuit = errors.New("quit")

// App runs the menu loop over command and query handlers.
type App struct {
	commands *command.Handlers
	queries  *query.Handlers
	out      *Presenter
	in       *Prompter
	log      *logger.Logger
	topN     int
}

// Config carries the App dependencies.
type Config struct {
	Commands *command.Handlers
	Queries  *query.Handlers
	Input    io.Reader
	Output   *Presenter
	Logger   *logger.Logger

	// TopN is the ranking size of menu entry 7.
	TopN int
}

// New creates an App.
func New(cfg Config) *App {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.TopN <= 0 {
		cfg.TopN = query.DefaultTopN
	}
	return &App{
		commands: cfg.Commands,
		queries:  cfg.Queries,
		out:      cfg.Output,
		in:       NewPrompter(cfg.Input, cfg.Output),
		log:      cfg.Logger.With(logger.Component("cli")),
		topN:     cfg.TopN,
	}
}

// Run shows the welcome banner and the load result, then loops over the
// menu until the user exits, the input ends or ctx is canceled.
func (a *App) Run(ctx context.Context, report student.LoadReport, loadErr error) error {
	a.out.Welcome()
	a.out.LoadResult(report, loadErr)

	for {
		if err := ctx.Err(); err != nil {
			return a.finish(err)
		}

		a.out.Menu(a.topN)
		choice, err := a.in.AskTrimmed(ctx, "\nPilih menu (1-11): ")
		if err != nil {
			return a.finish(err)
		}

		err = a.dispatch(ctx, choice)
		if errors.Is(err, errQuit) {
			a.out.Goodbye()
			return nil
		}
		if err != nil {
			return a.finish(err)
		}

		if _, err := a.in.Ask(ctx, "\nTekan Enter untuk kembali ke menu..."); err != nil {
			return a.finish(err)
		}
	}
}

// finish turns end of input or an interrupt into a normal exit.
func (a *App) finish(err error) error {
	switch {
	case errors.Is(err, io.EOF):
		a.log.Info("input closed, exiting")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		a.log.Info("interrupted, exiting")
	default:
		return err
	}
	a.out.Println("")
	a.out.Goodbye()
	return nil
}

func (a *App) dispatch(ctx context.Context, choice string) error {
	// One correlation id per menu action ties its log lines together.
	ctx = withCorrelation(ctx, uuid.NewString())
	a.log.Debug("menu choice", logger.F("choice", choice), logger.CorrelationID(correlationID(ctx)))

	switch choice {
	case "1":
		return a.addStudent(ctx)
	case "2":
		return a.listStudents(ctx)
	case "3":
		return a.findStudent(ctx)
	case "4":
		return a.updateStudent(ctx)
	case "5":
		return a.removeStudent(ctx)
	case "6":
		return a.addGrade(ctx)
	case "7":
		return a.topStudents(ctx)
	case "8":
		return a.classStatistics(ctx)
	case "9":
		return errQuit
	case "10":
		return a.importStudents(ctx)
	case "11":
		return a.exportRoster(ctx)
	default:
		a.out.Println("")
		a.out.Failure("Pilihan tidak valid! Silakan pilih 1-11.")
		return nil
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MENU ACTIONS
// Each action returns only input errors (io.EOF, ctx.Err()); domain failures are printed.
// ══════════════════════════════════════════════════════════════════════════════

func (a *App) addStudent(ctx context.Context) error {
	a.out.Section("➕ TAMBAH SISWA BARU", sgrGreen)

	var id string
	for {
		var err error
		id, err = a.in.AskTrimmed(ctx, "\nMasukkan ID Siswa (format: S001, S002, ...): ")
		if err != nil {
			return err
		}
		if !student.IsValidID(id) {
			a.out.Failure("Format ID tidak valid! Harus menggunakan format S diikuti 3 digit angka (contoh: S001, S012)")
			continue
		}
		if _, err := a.queries.FindStudent.Handle(ctx, query.FindStudentQuery{ID: id}); err == nil {
			a.out.Failure("ID %s sudah digunakan! Silakan gunakan ID lain.", id)
			continue
		}
		break
	}

	name, err := a.in.AskTrimmed(ctx, "Masukkan Nama Siswa: ")
	if err != nil {
		return err
	}
	if name == "" {
		a.out.Failure("Nama tidak boleh kosong!")
		return nil
	}

	class, err := a.in.AskTrimmed(ctx, "Masukkan Kelas: ")
	if err != nil {
		return err
	}

	_, err = a.commands.AddStudent.Handle(ctx, command.AddStudentCommand{
		ID:            id,
		Name:          name,
		Class:         class,
		CorrelationID: correlationID(ctx),
	})
	if err != nil {
		a.reportFailure("Gagal menambahkan siswa!", err)
		return nil
	}

	a.out.Println("")
	a.out.Success("Siswa %s (%s) berhasil ditambahkan!", name, id)
	return nil
}

func (a *App) listStudents(ctx context.Context) error {
	res, err := a.queries.ListStudents.Handle(ctx, query.ListStudentsQuery{})
	if err != nil {
		a.reportFailure("Gagal memuat daftar siswa!", err)
		return nil
	}
	a.out.StudentList(res.Students)
	return nil
}

// lookup asks for an id and prints "not found" when it is unknown.
func (a *App) lookup(ctx context.Context) (*query.StudentDTO, error) {
	id, err := a.in.AskTrimmed(ctx, "\nMasukkan ID Siswa: ")
	if err != nil {
		return nil, err
	}

	dto, err := a.queries.FindStudent.Handle(ctx, query.FindStudentQuery{ID: id})
	if err != nil {
		a.out.Println("")
		a.out.Failure("Siswa dengan ID %s tidak ditemukan!", id)
		return nil, nil
	}
	return dto, nil
}

func (a *App) findStudent(ctx context.Context) error {
	a.out.Section("🔍 CARI SISWA", sgrBlue)

	dto, err := a.lookup(ctx)
	if err != nil || dto == nil {
		return err
	}
	a.out.StudentCard(*dto)
	return nil
}

func (a *App) updateStudent(ctx context.Context) error {
	a.out.Section("✏️  UPDATE DATA SISWA", sgrYellow)

	dto, err := a.lookup(ctx)
	if err != nil || dto == nil {
		return err
	}

	a.out.Println("")
	a.out.Println("📋 Data saat ini:")
	a.out.StudentCard(*dto)

	a.out.Println("")
	a.out.Info("ℹ️  Kosongkan jika tidak ingin mengubah")

	name, err := a.in.AskTrimmed(ctx, "Nama baru (Enter untuk skip): ")
	if err != nil {
		return err
	}
	class, err := a.in.AskTrimmed(ctx, "Kelas baru (Enter untuk skip): ")
	if err != nil {
		return err
	}

	cmd := command.UpdateStudentCommand{ID: dto.ID, CorrelationID: correlationID(ctx)}
	if name != "" {
		cmd.Name = &name
	}
	if class != "" {
		cmd.Class = &class
	}

	if _, err := a.commands.UpdateStudent.Handle(ctx, cmd); err != nil {
		if errors.Is(err, shared.ErrNothingToUpdate) {
			a.out.Println("")
			a.out.Warning("Tidak ada perubahan yang dilakukan.")
			return nil
		}
		a.reportFailure("Gagal mengupdate data siswa!", err)
		return nil
	}

	a.out.Println("")
	a.out.Success("Data siswa berhasil diupdate!")

	updated, err := a.queries.FindStudent.Handle(ctx, query.FindStudentQuery{ID: dto.ID})
	if err == nil {
		a.out.Println("")
		a.out.Println("📋 Data setelah update:")
		a.out.StudentCard(*updated)
	}
	return nil
}

func (a *App) removeStudent(ctx context.Context) error {
	a.out.Section("🗑️  HAPUS SISWA", sgrRed)

	dto, err := a.lookup(ctx)
	if err != nil || dto == nil {
		return err
	}

	a.out.Println("")
	a.out.Println("📋 Data siswa yang akan dihapus:")
	a.out.StudentCard(*dto)

	answer, err := a.in.AskTrimmed(ctx, "\n⚠️  Apakah Anda yakin ingin menghapus siswa ini? (Y/N): ")
	if err != nil {
		return err
	}
	if strings.ToUpper(answer) != "Y" {
		a.out.Println("")
		a.out.Warning("Penghapusan dibatalkan.")
		return nil
	}

	if _, err := a.commands.RemoveStudent.Handle(ctx, command.RemoveStudentCommand{ID: dto.ID, CorrelationID: correlationID(ctx)}); err != nil {
		a.reportFailure("Gagal menghapus siswa!", err)
		return nil
	}

	a.out.Println("")
	a.out.Success("Siswa %s (%s) berhasil dihapus!", dto.Name, dto.ID)
	return nil
}

func (a *App) addGrade(ctx context.Context) error {
	a.out.Section("📝 TAMBAH NILAI SISWA", sgrBlue)

	dto, err := a.lookup(ctx)
	if err != nil || dto == nil {
		return err
	}

	a.out.Println("")
	a.out.Println("📋 Data siswa:")
	a.out.Println("  Nama: " + dto.Name)
	a.out.Println("  Kelas: " + dto.Class)

	var subject string
	for subject == "" {
		subject, err = a.in.AskTrimmed(ctx, "\nMasukkan Mata Pelajaran: ")
		if err != nil {
			return err
		}
		if subject == "" {
			a.out.Failure("Mata pelajaran tidak boleh kosong!")
		}
	}

	var score float64
	for {
		raw, err := a.in.AskTrimmed(ctx, "Masukkan Nilai (0-100): ")
		if err != nil {
			return err
		}
		if v, ok := parseScore(raw); ok {
			score = v
			break
		}
		a.out.Failure("Nilai tidak valid! Nilai harus berupa angka antara 0-100.")
	}

	res, err := a.commands.AddGrade.Handle(ctx, command.AddGradeCommand{
		StudentID:     dto.ID,
		Subject:       subject,
		Score:         score,
		CorrelationID: correlationID(ctx),
	})
	if err != nil {
		a.reportFailure("Gagal menambahkan nilai!", err)
		return nil
	}

	a.out.Println("")
	a.out.Success("Nilai %s (%s) berhasil ditambahkan untuk %s!", subject, formatScore(score), dto.Name)
	a.out.GradeSummary(res.Average, res.Status)
	return nil
}

func (a *App) topStudents(ctx context.Context) error {
	a.out.Section(fmt.Sprintf("🏆 TOP %d SISWA TERBAIK", a.topN), sgrMagenta)

	ranked, err := a.queries.TopStudents.Handle(ctx, query.TopStudentsQuery{N: a.topN, CorrelationID: correlationID(ctx)})
	if err != nil {
		a.reportFailure("Gagal menyusun peringkat!", err)
		return nil
	}
	if len(ranked) == 0 {
		a.out.Println("")
		a.out.Warning("Belum ada data siswa.")
		return nil
	}

	a.out.Ranking(ranked)
	return nil
}

func (a *App) classStatistics(ctx context.Context) error {
	a.out.Section("📊 STATISTIK KELAS", sgrCyan)

	class, err := a.in.AskTrimmed(ctx, "\nMasukkan Nama Kelas: ")
	if err != nil {
		return err
	}

	res, err := a.queries.ClassReport.Handle(ctx, query.ClassReportQuery{Class: class, CorrelationID: correlationID(ctx)})
	if err != nil {
		a.out.Println("")
		a.out.Failure("Tidak ada siswa di kelas %s.", class)
		return nil
	}

	a.out.ClassReport(class, res)
	return nil
}

func (a *App) importStudents(ctx context.Context) error {
	a.out.Section("📥 IMPOR SISWA DARI EXCEL", sgrGreen)

	path, err := a.in.AskTrimmed(ctx, "\nPath file .xlsx: ")
	if err != nil {
		return err
	}

	res, err := a.commands.ImportStudents.Handle(ctx, command.ImportStudentsCommand{Path: path, CorrelationID: correlationID(ctx)})
	if err != nil {
		a.reportFailure("Gagal mengimpor file!", err)
		return nil
	}

	a.out.Println("")
	a.out.Success("%d siswa berhasil diimpor dari sheet %s.", len(res.Added), res.Sheet)
	for _, s := range res.Skipped {
		a.out.Warning("Baris %d (%s) dilewati: %s", s.Row, s.ID, s.Reason)
	}
	return nil
}

func (a *App) exportRoster(ctx context.Context) error {
	a.out.Section("📤 EKSPOR DATA KE EXCEL", sgrGreen)

	path, err := a.in.AskTrimmed(ctx, "\nPath file .xlsx (Enter untuk students.xlsx): ")
	if err != nil {
		return err
	}
	if path == "" {
		path = "students.xlsx"
	}

	res, err := a.queries.ExportRoster.Handle(ctx, query.ExportRosterQuery{Path: path, CorrelationID: correlationID(ctx)})
	if err != nil {
		a.reportFailure("Gagal mengekspor data!", err)
		return nil
	}

	a.out.Println("")
	a.out.Success("%d siswa dari %d kelas diekspor ke %s", res.Students, len(res.Classes), res.Path)
	return nil
}

// reportFailure prints a storage problem loudly, otherwise the domain
// message, otherwise fallback.
func (a *App) reportFailure(fallback string, err error) {
	a.out.Println("")

	if shared.IsStorage(err) {
		a.out.Failure("Error menyimpan data: %v", err)
		return
	}

	var de *shared.DomainError
	if errors.As(err, &de) {
		a.out.Failure("%s (%s)", fallback, de.Message)
		return
	}

	a.out.Failure("%s (%v)", fallback, err)
}

// parseScore accepts a finite number in [0, 100]. A decimal comma is allowed.
func parseScore(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, student.IsValidScore(v)
}
