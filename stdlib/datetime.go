package stdlib

import (
	"time"

	"github.com/utlx/utlx/udm"
)

func init() {
	register(Func{Name: "now", MinArity: 0, MaxArity: 0, Call: dtNow})
	register(Func{Name: "today", MinArity: 0, MaxArity: 0, Call: dtToday})
	register(Func{Name: "parseDate", MinArity: 1, MaxArity: 2, Call: dtParseDate})
	register(Func{Name: "parseDateTime", MinArity: 1, MaxArity: 2, Call: dtParseDateTime})
	register(Func{Name: "formatDate", MinArity: 2, MaxArity: 2, Call: dtFormatDate})
	register(Func{Name: "formatDateTime", MinArity: 2, MaxArity: 2, Call: dtFormatDateTime})
	register(Func{Name: "addDays", MinArity: 2, MaxArity: 2, Call: dtAddDays})
	register(Func{Name: "addSeconds", MinArity: 2, MaxArity: 2, Call: dtAddSeconds})
	register(Func{Name: "diffDays", MinArity: 2, MaxArity: 2, Call: dtDiffDays})
	register(Func{Name: "diffSeconds", MinArity: 2, MaxArity: 2, Call: dtDiffSeconds})
	register(Func{Name: "dayOfWeek", MinArity: 1, MaxArity: 1, Call: dtDayOfWeek})
	register(Func{Name: "year", MinArity: 1, MaxArity: 1, Call: dtYear})
	register(Func{Name: "month", MinArity: 1, MaxArity: 1, Call: dtMonth})
	register(Func{Name: "day", MinArity: 1, MaxArity: 1, Call: dtDay})
	register(Func{Name: "toDateTime", MinArity: 1, MaxArity: 1, Call: dtToDateTime})
}

// goDateLayout and goDateTimeLayout are the default parse layouts, and
// formatting strings use the same strftime-free convention: Go's
// reference-time layouts (2006-01-02 for dates, RFC 3339
// 2006-01-02T15:04:05Z07:00 for date-times), the same convention arturoeanton/go-xml's
// own timestamp handling in xml/export.go relies on via time.Format.
const goDateLayout = "2006-01-02"
const goDateTimeLayout = time.RFC3339

func dtNow(ctx *Context, _ []*udm.Value) (*udm.Value, error) {
	return udm.NewDateTime(udm.NewDateTimeFromTime(ctx.now())), nil
}

func dtToday(ctx *Context, _ []*udm.Value) (*udm.Value, error) {
	loc, err := time.LoadLocation(ctx.timeZone())
	if err != nil {
		loc = time.UTC
	}
	t := ctx.now().In(loc)
	return udm.NewDate(udm.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}), nil
}

func dtParseDate(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("parseDate", args[0])
	if err != nil {
		return nil, err
	}
	layout := goDateLayout
	if len(args) == 2 {
		if layout, err = asStr("parseDate", args[1]); err != nil {
			return nil, err
		}
	}
	t, perr := time.Parse(layout, s)
	if perr != nil {
		return nil, argErr("parseDate", "could not parse date: "+perr.Error())
	}
	return udm.NewDate(udm.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}), nil
}

func dtParseDateTime(_ *Context, args []*udm.Value) (*udm.Value, error) {
	s, err := asStr("parseDateTime", args[0])
	if err != nil {
		return nil, err
	}
	layout := goDateTimeLayout
	if len(args) == 2 {
		if layout, err = asStr("parseDateTime", args[1]); err != nil {
			return nil, err
		}
	}
	t, perr := time.Parse(layout, s)
	if perr != nil {
		return nil, argErr("parseDateTime", "could not parse date-time: "+perr.Error())
	}
	return udm.NewDateTime(udm.NewDateTimeFromTime(t)), nil
}

func asDateTimeLike(fn string, v *udm.Value) (time.Time, error) {
	switch v.Kind() {
	case udm.KindDateTime:
		return v.AsDateTime().Time(), nil
	case udm.KindLocalDateTime:
		ldt := v.AsLocalDateTime()
		return time.Date(ldt.Date.Year, time.Month(ldt.Date.Month), ldt.Date.Day,
			ldt.Time.Hour, ldt.Time.Minute, ldt.Time.Second, ldt.Time.Nanosecond, time.UTC), nil
	case udm.KindDate:
		d := v.AsDate()
		return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC), nil
	default:
		return time.Time{}, typeErr(fn, "expected a date, localDateTime or dateTime argument, got "+v.TypeName())
	}
}

func dtFormatDate(_ *Context, args []*udm.Value) (*udm.Value, error) {
	t, err := asDateTimeLike("formatDate", args[0])
	if err != nil {
		return nil, err
	}
	layout, err := asStr("formatDate", args[1])
	if err != nil {
		return nil, err
	}
	return udm.String(t.Format(layout)), nil
}

func dtFormatDateTime(_ *Context, args []*udm.Value) (*udm.Value, error) {
	t, err := asDateTimeLike("formatDateTime", args[0])
	if err != nil {
		return nil, err
	}
	layout, err := asStr("formatDateTime", args[1])
	if err != nil {
		return nil, err
	}
	return udm.String(t.Format(layout)), nil
}

func dtAddDays(_ *Context, args []*udm.Value) (*udm.Value, error) {
	t, err := asDateTimeLike("addDays", args[0])
	if err != nil {
		return nil, err
	}
	if args[1].ScalarKind() != udm.ScalarInt {
		return nil, typeErr("addDays", "days must be an integer")
	}
	nt := t.AddDate(0, 0, int(args[1].AsInt()))
	return rewrapLike(args[0], nt), nil
}

func dtAddSeconds(_ *Context, args []*udm.Value) (*udm.Value, error) {
	t, err := asDateTimeLike("addSeconds", args[0])
	if err != nil {
		return nil, err
	}
	n, _, nerr := asNumeric("addSeconds", args[1])
	if nerr != nil {
		return nil, nerr
	}
	nt := t.Add(time.Duration(n * float64(time.Second)))
	return rewrapLike(args[0], nt), nil
}

func rewrapLike(orig *udm.Value, t time.Time) *udm.Value {
	switch orig.Kind() {
	case udm.KindDate:
		return udm.NewDate(udm.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()})
	case udm.KindLocalDateTime:
		return udm.NewLocalDateTime(udm.LocalDateTime{
			Date: udm.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()},
			Time: udm.Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()},
		})
	default:
		return udm.NewDateTime(udm.NewDateTimeFromTime(t))
	}
}

func dtDiffDays(_ *Context, args []*udm.Value) (*udm.Value, error) {
	a, err := asDateTimeLike("diffDays", args[0])
	if err != nil {
		return nil, err
	}
	b, err := asDateTimeLike("diffDays", args[1])
	if err != nil {
		return nil, err
	}
	return udm.Int(int64(a.Sub(b).Hours() / 24)), nil
}

func dtDiffSeconds(_ *Context, args []*udm.Value) (*udm.Value, error) {
	a, err := asDateTimeLike("diffSeconds", args[0])
	if err != nil {
		return nil, err
	}
	b, err := asDateTimeLike("diffSeconds", args[1])
	if err != nil {
		return nil, err
	}
	return udm.Float(a.Sub(b).Seconds()), nil
}

func dtDayOfWeek(_ *Context, args []*udm.Value) (*udm.Value, error) {
	t, err := asDateTimeLike("dayOfWeek", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Int(int64(t.Weekday())), nil
}

func dtYear(_ *Context, args []*udm.Value) (*udm.Value, error) {
	t, err := asDateTimeLike("year", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Int(int64(t.Year())), nil
}

func dtMonth(_ *Context, args []*udm.Value) (*udm.Value, error) {
	t, err := asDateTimeLike("month", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Int(int64(t.Month())), nil
}

func dtDay(_ *Context, args []*udm.Value) (*udm.Value, error) {
	t, err := asDateTimeLike("day", args[0])
	if err != nil {
		return nil, err
	}
	return udm.Int(int64(t.Day())), nil
}

func dtToDateTime(_ *Context, args []*udm.Value) (*udm.Value, error) {
	t, err := asDateTimeLike("toDateTime", args[0])
	if err != nil {
		return nil, err
	}
	return udm.NewDateTime(udm.NewDateTimeFromTime(t)), nil
}
