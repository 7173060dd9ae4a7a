package cdsfuncs

import (
	"errors"

	"github.com/cdsmodel/cellbridge/addin"
	"github.com/cdsmodel/cellbridge/analytics"
	"github.com/cdsmodel/cellbridge/domain/entities"
	domainerrors "github.com/cdsmodel/cellbridge/domain/errors"
)

// NoLogContents is returned by ErrorLogContents when nothing is recorded.
const NoLogContents = "(no log contents)"

var errNoLogFile = errors.New("no error log file is set")

func version(ctx addin.CallContext, _ addin.Args) (entities.Value, error) {
	return ctx.Results().Text(analytics.VersionString())
}

func errorLogStatus(ctx addin.CallContext, _ addin.Args) (entities.Value, error) {
	if ctx.Diagnostics().Enabled() {
		return ctx.Results().Number(1)
	}
	return ctx.Results().Number(0)
}

func errorLogContents(ctx addin.CallContext, _ addin.Args) (entities.Value, error) {
	lines := ctx.Diagnostics().Lines()
	if len(lines) == 0 {
		return ctx.Results().Text(NoLogContents)
	}
	return ctx.Results().Texts(lines)
}

func errorLogFilename(ctx addin.CallContext, _ addin.Args) (entities.Value, error) {
	name := ctx.Diagnostics().Filename()
	if name == "" {
		return nil, errNoLogFile
	}
	return ctx.Results().Text(name)
}

type logFileReq struct {
	filename string
	append   bool
}

func setErrorLogFilename(ctx addin.CallContext, req logFileReq) (entities.Value, error) {
	if err := ctx.Diagnostics().SetFilename(req.filename, req.append); err != nil {
		return nil, err
	}
	return ctx.Results().Number(1)
}

func setErrorLogStatus(ctx addin.CallContext, on bool) (entities.Value, error) {
	ctx.Diagnostics().SetEnabled(on)
	if on {
		return ctx.Results().Number(1)
	}
	return ctx.Results().Number(0)
}

type holidaysReq struct {
	name     string
	filename string
}

func loadHolidays(ctx addin.CallContext, req holidaysReq) (entities.Value, error) {
	cal, err := ctx.Calendars().LoadFile(req.name, req.filename)
	if err != nil {
		return nil, &domainerrors.EngineError{Routine: "LoadHolidays", Err: err}
	}
	ctx.Logger().Debug("holidays loaded", "calendar", cal.Name, "holidays", len(cal.Holidays()))
	return ctx.Results().Number(1)
}

// DiagnosticsBundle returns the library and error log functions: Version,
// ErrorLogContents, ErrorLogStatus, ErrorLogFilename, SetErrorLogFilename
// and SetErrorLogStatus.
func DiagnosticsBundle() addin.Bundle {
	return addin.NewBundle(
		addin.Define(VersionDesc, version),
		addin.Define(ErrorLogContentsDesc, errorLogContents),
		addin.Define(ErrorLogStatusDesc, errorLogStatus),
		addin.Define(ErrorLogFilenameDesc, errorLogFilename),
		typed(SetErrorLogFilenameDesc, func(p *params) logFileReq {
			return logFileReq{filename: p.text(0), append: p.flag(1)}
		}, setErrorLogFilename),
		typed(SetErrorLogStatusDesc, func(p *params) bool {
			return p.flag(0)
		}, setErrorLogStatus),
	)
}

// CalendarBundle returns LoadHolidays.
func CalendarBundle() addin.Bundle {
	return addin.NewBundle(
		typed(LoadHolidaysDesc, func(p *params) holidaysReq {
			return holidaysReq{name: p.text(0), filename: p.text(1)}
		}, loadHolidays),
	)
}
