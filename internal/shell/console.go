// Package shell implements the interactive borrowing console: it collects a
// customer's books and dates line by line, re-prompting on bad input, and
// prints the borrowing summary.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"

	"libfine/internal/core"
	"libfine/internal/log"
	"libfine/internal/report"
)

const (
	banner            = "===== Library Borrowing System v2.0 ====="
	msgNumbersOnly    = "Error! Please enter numbers only: "
	msgInvalidInput   = "Invalid input! Please enter numbers only."
	msgInvalidDate    = "Invalid Date! Please enter again."
	msgReturnTooEarly = "Error! Return date cannot be before borrow date."
	msgInvalidTitle   = "Invalid title! Please enter again."
)

// Service is what the console needs from services.BorrowingService.
type Service interface {
	OpenSession(ctx context.Context, customer string) (string, error)
	AddRecord(ctx context.Context, sessionID string, r core.BorrowRecord) (string, error)
	Summarize(ctx context.Context, sessionID string) (core.Summary, error)
}

type Console struct {
	in       *lineReader
	out      io.Writer
	svc      Service
	currency string
	logger   *log.Logger
}

type Option func(*Console)

func WithCurrency(currency string) Option {
	return func(c *Console) { c.currency = currency }
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Console) { c.logger = logger.WithComponent(log.ComponentConsole) }
}

func NewConsole(in io.Reader, out io.Writer, svc Service, opts ...Option) *Console {
	c := &Console{
		in:       newLineReader(in),
		out:      out,
		svc:      svc,
		currency: "RM",
		logger:   log.New(log.DefaultConfig()).WithComponent(log.ComponentConsole),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run drives one session from the banner to the summary. It returns
// ErrInputClosed or the context error if input stops before every record
// is collected; nothing is summarised in that case.
func (c *Console) Run(ctx context.Context) error {
	ctx = log.WithLogger(ctx, c.logger)
	c.println(banner)

	c.print("Enter customer name: ")
	customer, err := c.in.next(ctx)
	if err != nil {
		return err
	}

	c.print("How many books to borrow? ")
	count, err := c.readCount(ctx)
	if err != nil {
		return err
	}

	sessionID, err := c.svc.OpenSession(ctx, customer)
	if err != nil {
		return err
	}

	for i := 1; i <= count; i++ {
		rec, err := c.readBook(ctx, i)
		if err != nil {
			c.logger.InfoContext(ctx, "Session aborted",
				log.NewFields().WithSession(sessionID, "").WithError(err).ToSlice()...)
			return err
		}
		if _, err := c.svc.AddRecord(ctx, sessionID, rec); err != nil {
			return err
		}
	}

	summary, err := c.svc.Summarize(ctx, sessionID)
	if err != nil {
		return err
	}
	return report.Render(c.out, summary, c.currency)
}

func (c *Console) readCount(ctx context.Context) (int, error) {
	for {
		line, err := c.in.next(ctx)
		if err != nil {
			return 0, err
		}
		n, ok, err := parseCount(line)
		if !ok {
			continue
		}
		if err != nil {
			c.logger.DebugContext(ctx, "Rejected book count", log.FieldError, err)
			c.print(msgNumbersOnly)
			continue
		}
		return n, nil
	}
}

func (c *Console) readBook(ctx context.Context, n int) (core.BorrowRecord, error) {
	fmt.Fprintf(c.out, "\n--- Book #%d ---\n", n)
	title, err := c.readTitle(ctx)
	if err != nil {
		return core.BorrowRecord{}, err
	}

	borrowed, err := c.readDate(ctx, "Borrow Date (DD MM YYYY): ", nil)
	if err != nil {
		return core.BorrowRecord{}, err
	}

	var rec core.BorrowRecord
	_, err = c.readDate(ctx, "Return Date (DD MM YYYY): ", func(returned core.CalendarDate) error {
		r, err := core.NewBorrowRecord(title, borrowed, returned)
		if err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		return core.BorrowRecord{}, err
	}
	return rec, nil
}

func (c *Console) readTitle(ctx context.Context) (string, error) {
	for {
		c.print("Book name: ")
		title, err := c.in.next(ctx)
		if err != nil {
			return "", err
		}
		if err := core.ValidateTitle(title); err != nil {
			c.logger.DebugContext(ctx, "Rejected title", log.FieldError, err)
			c.println(msgInvalidTitle)
			continue
		}
		return title, nil
	}
}

// readDate prompts until a valid date is entered and accept, if set, agrees.
func (c *Console) readDate(ctx context.Context, prompt string, accept func(core.CalendarDate) error) (core.CalendarDate, error) {
	for {
		c.print(prompt)
		line, err := c.in.next(ctx)
		if err != nil {
			return core.CalendarDate{}, err
		}

		d, err := ParseCalendarDate(line)
		if err == nil && accept != nil {
			err = accept(d)
		}
		switch {
		case err == nil:
			return d, nil
		case errors.Is(err, ErrInvalidDateFormat):
			c.println(msgInvalidInput)
		case errors.Is(err, core.ErrInvalidCalendarDate):
			c.println(msgInvalidDate)
		case errors.Is(err, core.ErrReturnBeforeBorrow):
			c.println(msgReturnTooEarly)
		default:
			return core.CalendarDate{}, err
		}
		c.logger.DebugContext(ctx, "Rejected date", log.FieldError, err)
	}
}

func (c *Console) print(s string) {
	fmt.Fprint(c.out, s)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}
