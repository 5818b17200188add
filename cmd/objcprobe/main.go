package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	objr "github.com/drewcrawford/objr"
	"github.com/drewcrawford/objr/exception"
	"github.com/drewcrawford/objr/foundation"
	"github.com/drewcrawford/objr/native"
	"github.com/drewcrawford/objr/objc"
	"github.com/drewcrawford/objr/objctest"
	"github.com/drewcrawford/objr/sym"
)

// syms holds the probe's dynamically declared symbols. Declarations are
// idempotent, so probing the same class twice reuses the same slot.
var syms = sym.NewGroup("objcprobe")

func main() {
	var (
		className   = flag.String("class", "", "Class to probe")
		selName     = flag.String("selector", "", "Selector to check against -class (optional)")
		fake        = flag.Bool("fake", false, "Probe the simulated runtime instead of the host's")
		symbols     = flag.Bool("symbols", false, "Dump resolved symbol groups and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	rt, err := newRuntime(*fake)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(rt, *fake); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *className == "" && !*symbols {
		fmt.Fprintln(os.Stderr, "Usage: objcprobe -class <name> [-selector name] [-fake]")
		fmt.Fprintln(os.Stderr, "       objcprobe -symbols")
		fmt.Fprintln(os.Stderr, "       objcprobe -i  (interactive mode)")
		os.Exit(1)
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))

	if *className != "" {
		r := runProbe(rt, *className, *selName)
		fmt.Print(renderReport(r, styled))
		if r.err != nil {
			os.Exit(1)
		}
	}

	if *symbols {
		fmt.Print(renderSymbols(styled))
	}
}

func newRuntime(fake bool) (objr.Runtime, error) {
	if fake {
		return objctest.New(), nil
	}
	return native.New()
}

// report is the outcome of probing one class, plus optionally one selector
// against it.
type report struct {
	class       string
	classHandle objr.Handle
	instance    objr.Handle
	description string
	selector    string
	responds    bool
	err         error
}

// runProbe looks the class up, round-trips an instance through alloc/init
// and description inside a fresh pool scope, and releases everything before
// returning. Objective-C exceptions raised along the way are reported as
// errors when the runtime can trap them.
func runProbe(rt objr.Runtime, className, selName string) report {
	r := report{class: className, selector: selName}

	cls := syms.Class(className)
	h, err := cls.TryHandle(rt)
	if err != nil {
		r.err = err
		return r
	}
	r.classHandle = h

	r.err = objc.WithPool(rt, func(pool *objc.Pool) error {
		return exception.Catch(rt, func() {
			inst := foundation.AllocInit(cls, pool)
			if inst == nil {
				return
			}
			defer inst.Release()
			r.instance = inst.Handle()
			r.description = foundation.DescriptionString(inst, pool)
			if selName != "" {
				r.responds = foundation.RespondsToSelector(rt, inst, syms.Selector(selName))
			}
		})
	})
	return r
}

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

func renderReport(r report, styled bool) string {
	label := func(s string) string {
		if styled {
			return labelStyle.Render(s)
		}
		return s
	}
	value := func(s string) string {
		if styled {
			return valueStyle.Render(s)
		}
		return s
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", label("Class:"), value(r.class))
	if r.err != nil {
		msg := fmt.Sprintf("Error: %v", r.err)
		if styled {
			msg = failStyle.Render(msg)
		}
		b.WriteString(msg + "\n")
		return b.String()
	}
	fmt.Fprintf(&b, "%s %s\n", label("Handle:"), value(r.classHandle.String()))
	if !r.instance.IsNil() {
		fmt.Fprintf(&b, "%s %s\n", label("Instance:"), value(r.instance.String()))
		fmt.Fprintf(&b, "%s %s\n", label("Description:"), value(r.description))
	}
	if r.selector != "" {
		fmt.Fprintf(&b, "%s %s -> %s\n", label("Responds to:"), value(r.selector), value(fmt.Sprintf("%v", r.responds)))
	}
	return b.String()
}

func renderSymbols(styled bool) string {
	var b strings.Builder
	for _, info := range sym.Snapshot() {
		line := fmt.Sprintf("%s/%s %s resolved=%v", info.Group, info.Kind, info.Name, info.Resolved)
		if styled {
			line = valueStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
