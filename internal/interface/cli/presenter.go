package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"github.com/nilai-hub/student-grades/internal/application/query"
	"github.com/nilai-hub/student-grades/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// PRESENTER
// Formats DTOs for the terminal. ANSI colors only when writing to a TTY.
// ══════════════════════════════════════════════════════════════════════════════

const (
	labelWidth = 20
	ruleWidth  = 50
)

// ANSI SGR codes.
const (
	sgrReset   = "\x1b[0m"
	sgrBold    = "\x1b[1m"
	sgrItalic  = "\x1b[3m"
	sgrRed     = "\x1b[31m"
	sgrGreen   = "\x1b[32m"
	sgrYellow  = "\x1b[33m"
	sgrBlue    = "\x1b[34m"
	sgrMagenta = "\x1b[35m"
	sgrCyan    = "\x1b[36m"
	sgrWhite   = "\x1b[37m"
	sgrGray    = "\x1b[90m"
)

// Presenter writes formatted output.
type Presenter struct {
	w     io.Writer
	color bool
}

// NewTerminalPresenter writes to f, enabling colors when f is a terminal
// and noColor is false. On Windows consoles colorable translates the codes.
func NewTerminalPresenter(f *os.File, noColor bool) *Presenter {
	tty := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	if tty && !noColor {
		return &Presenter{w: colorable.NewColorable(f), color: true}
	}
	return &Presenter{w: colorable.NewNonColorable(f), color: false}
}

// NewPresenter writes to w as is.
func NewPresenter(w io.Writer, color bool) *Presenter {
	return &Presenter{w: w, color: color}
}

// ─────────────────────────────────────────────────────────────────────────────
// Primitives
// ─────────────────────────────────────────────────────────────────────────────

func (p *Presenter) paint(s string, codes ...string) string {
	if !p.color || len(codes) == 0 {
		return s
	}
	return strings.Join(codes, "") + s + sgrReset
}

func (p *Presenter) Println(s string)               { fmt.Fprintln(p.w, s) }
func (p *Presenter) Printf(format string, a ...any) { fmt.Fprintf(p.w, format, a...) }

// Success, Failure, Warning and Info print one colored line.
func (p *Presenter) Success(format string, a ...any) {
	p.Println(p.paint("✓ "+fmt.Sprintf(format, a...), sgrGreen, sgrBold))
}

func (p *Presenter) Failure(format string, a ...any) {
	p.Println(p.paint("✗ "+fmt.Sprintf(format, a...), sgrRed))
}

func (p *Presenter) Warning(format string, a ...any) {
	p.Println(p.paint("⚠ "+fmt.Sprintf(format, a...), sgrYellow))
}

func (p *Presenter) Info(format string, a ...any) {
	p.Println(p.paint(fmt.Sprintf(format, a...), sgrGray, sgrItalic))
}

// Prompt prints label without a newline.
func (p *Presenter) Prompt(label string) {
	fmt.Fprint(p.w, p.paint(label, sgrCyan))
}

func (p *Presenter) rule(ch string, width int, codes ...string) string {
	return p.paint(strings.Repeat(ch, width), codes...)
}

// Section prints a titled block header.
func (p *Presenter) Section(title string, codes ...string) {
	p.Println("")
	p.Println(p.rule("━", ruleWidth, codes...))
	p.Println(p.paint("   "+title, append([]string{sgrBold}, codes...)...))
	p.Println(p.rule("━", ruleWidth, codes...))
}

// field renders "label<pad>: value" with the label padded by display width.
func (p *Presenter) field(label, value string) string {
	return p.paint(runewidth.FillRight(label, labelWidth), sgrBold) + ": " + value
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (p *Presenter) status(s string, passed bool) string {
	if passed {
		return p.paint(s, sgrGreen, sgrBold)
	}
	return p.paint(s, sgrRed, sgrBold)
}

// ─────────────────────────────────────────────────────────────────────────────
// Screens
// ─────────────────────────────────────────────────────────────────────────────

// Welcome prints the start banner.
func (p *Presenter) Welcome() {
	p.Println("")
	p.Println(p.rule("★", 60, sgrMagenta))
	p.Println(p.paint("     SELAMAT DATANG DI SISTEM MANAJEMEN NILAI SISWA     ", sgrBold, sgrWhite))
	p.Println(p.rule("★", 60, sgrMagenta))
}

// Goodbye prints the exit banner.
func (p *Presenter) Goodbye() {
	p.Println("")
	p.Println(p.rule("═", ruleWidth, sgrCyan))
	p.Println(p.paint("  👋 Terima kasih telah menggunakan aplikasi ini!  ", sgrBold, sgrWhite))
	p.Println(p.rule("═", ruleWidth, sgrCyan))
	p.Println("")
}

// LoadResult reports how the stored roster was read.
func (p *Presenter) LoadResult(report student.LoadReport, err error) {
	if err != nil {
		p.Failure("Error memuat data: %v", err)
		p.Warning("Melanjutkan dengan daftar siswa kosong. Data lama tidak akan ditimpa sampai ada perubahan.")
		return
	}

	p.Success("Data berhasil dimuat (%d siswa)", report.Loaded)
	if report.Clean() {
		return
	}

	p.Warning("%d data siswa di penyimpanan tidak valid dan dilewati:", len(report.Rejected))
	for _, rej := range report.Rejected {
		p.Warning("  #%d %q: %s", rej.Position, rej.ID, rej.Reason)
	}
}

// Menu prints the numbered main menu.
func (p *Presenter) Menu(topN int) {
	p.Println("")
	p.Println(p.rule("═", ruleWidth, sgrCyan, sgrBold))
	p.Println(p.paint("     📚 SISTEM MANAJEMEN NILAI SISWA 📚     ", sgrBold, sgrWhite))
	p.Println(p.rule("═", ruleWidth, sgrCyan, sgrBold))
	p.Println(p.paint("  1. Tambah Siswa Baru", sgrGreen))
	p.Println(p.paint("  2. Lihat Semua Siswa", sgrGreen))
	p.Println(p.paint("  3. Cari Siswa", sgrGreen))
	p.Println(p.paint("  4. Update Data Siswa", sgrYellow))
	p.Println(p.paint("  5. Hapus Siswa", sgrRed))
	p.Println(p.paint("  6. Tambah Nilai Siswa", sgrBlue))
	p.Println(p.paint(fmt.Sprintf("  7. Lihat Top %d Siswa", topN), sgrMagenta))
	p.Println(p.paint("  8. Statistik Kelas", sgrCyan))
	p.Println(p.paint("  9. Keluar", sgrWhite))
	p.Println(p.paint(" 10. Impor Siswa dari Excel", sgrGreen))
	p.Println(p.paint(" 11. Ekspor Data ke Excel", sgrGreen))
	p.Println(p.rule("═", ruleWidth, sgrCyan, sgrBold))
}

// StudentCard prints one student's identity, grades and standing.
func (p *Presenter) StudentCard(s query.StudentDTO) {
	var sb strings.Builder

	sb.WriteString("\n" + p.rule("=", ruleWidth, sgrCyan) + "\n")
	sb.WriteString(p.field("ID", p.paint(s.ID, sgrYellow)) + "\n")
	sb.WriteString(p.field("Nama", p.paint(s.Name, sgrYellow)) + "\n")
	sb.WriteString(p.field("Kelas", p.paint(s.Class, sgrYellow)) + "\n")
	sb.WriteString(p.rule("=", ruleWidth, sgrCyan) + "\n")

	sb.WriteString("\n" + p.paint("Daftar Nilai:", sgrBold) + "\n")
	if len(s.Grades) == 0 {
		sb.WriteString(p.paint("  Belum ada nilai", sgrGray, sgrItalic) + "\n")
	}
	for _, g := range s.Grades {
		color := sgrRed
		if g.Score >= student.PassThreshold {
			color = sgrGreen
		}
		sb.WriteString("  • " + runewidth.FillRight(g.Subject, labelWidth) + ": " + p.paint(formatScore(g.Score), color) + "\n")
	}

	sb.WriteString("\n" + p.rule("-", ruleWidth, sgrCyan) + "\n")
	sb.WriteString(p.field("Rata-rata", p.paint(formatAverage(s.Average), sgrYellow)) + "\n")
	sb.WriteString(p.field("Status", p.status(s.Status, s.Passed)) + "\n")
	sb.WriteString(p.rule("=", ruleWidth, sgrCyan) + "\n")

	fmt.Fprint(p.w, sb.String())
}

// StudentList prints every student card with its 1-based position.
func (p *Presenter) StudentList(students []query.StudentDTO) {
	if len(students) == 0 {
		p.Println("")
		p.Warning("Belum ada data siswa dalam sistem.")
		return
	}

	p.Println("")
	p.Println(p.rule("═", 60, sgrCyan, sgrBold))
	p.Println(p.paint("                      DAFTAR SEMUA SISWA", sgrBold, sgrCyan))
	p.Println(p.rule("═", 60, sgrCyan, sgrBold))

	for i, s := range students {
		p.Println("")
		p.Println(p.paint(fmt.Sprintf("[%d]", i+1), sgrBold, sgrMagenta))
		p.StudentCard(s)
	}
}

// Ranking prints the top students with medals for the first three places.
func (p *Presenter) Ranking(ranked []query.RankedStudentDTO) {
	medals := []string{"🥇", "🥈", "🥉"}
	for _, r := range ranked {
		medal := "🏅"
		if r.Rank <= len(medals) {
			medal = medals[r.Rank-1]
		}
		p.Println("")
		p.Println(p.paint(fmt.Sprintf("%s Peringkat %d", medal, r.Rank), sgrBold))
		p.StudentCard(r.StudentDTO)
	}
}

// GradeSummary prints a record's average and status after a grade change.
func (p *Presenter) GradeSummary(average float64, status student.PassStatus) {
	p.Println("")
	p.Println(p.paint("📊 Ringkasan Nilai:", sgrBold))
	p.Println(p.paint("  Rata-rata: "+formatAverage(average), sgrYellow))
	p.Println("  Status: " + p.status(status.String(), status.IsPassed()))
}

// ClassReport prints class statistics followed by the member list.
func (p *Presenter) ClassReport(className string, r *query.ClassReportResult) {
	s := r.Statistics
	stat := func(label, value string, codes ...string) {
		p.Println("  " + runewidth.FillRight(label, labelWidth) + ": " + p.paint(value, codes...))
	}

	p.Println("")
	p.Println(p.rule("═", ruleWidth, sgrCyan))
	p.Println(p.paint("  STATISTIK KELAS "+s.ClassName, sgrBold, sgrWhite))
	p.Println(p.rule("═", ruleWidth, sgrCyan))
	stat("Total Siswa", strconv.Itoa(s.TotalStudents), sgrYellow)
	stat("Rata-rata Kelas", formatAverage(s.ClassAverage), sgrYellow)
	stat("Siswa Lulus", strconv.Itoa(s.PassedStudents), sgrGreen)
	stat("Siswa Tidak Lulus", strconv.Itoa(s.FailedStudents), sgrRed)
	stat("Tingkat Kelulusan", formatAverage(s.PassRate)+"%", sgrYellow)
	stat("Nilai Tertinggi", formatAverage(s.HighestAverage), sgrGreen)
	stat("Nilai Terendah", formatAverage(s.LowestAverage), sgrRed)
	p.Println(p.rule("═", ruleWidth, sgrCyan))

	p.Println("")
	p.Println(p.paint("📋 Daftar Siswa di Kelas "+className+":", sgrBold))
	for i, st := range r.Students {
		mark := p.paint("✗", sgrRed)
		if st.Passed {
			mark = p.paint("✓", sgrGreen)
		}
		p.Printf("  %d. %s (%s) - Rata-rata: %s %s\n",
			i+1, runewidth.FillRight(st.Name, labelWidth), st.ID, formatAverage(st.Average), mark)
	}
}
