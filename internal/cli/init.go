package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/sensorpanel/internal/config"
	"github.com/rileyhilliard/sensorpanel/internal/errors"
	"github.com/rileyhilliard/sensorpanel/internal/poller"
	"github.com/rileyhilliard/sensorpanel/internal/ui"
	"github.com/spf13/cobra"
)

// initOptions holds options for the init command.
type initOptions struct {
	Force          bool // Overwrite existing config without asking
	NonInteractive bool // Skip prompts, use defaults plus flags
}

var baudRates = []int{1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200}

func newInitCmd() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create .sensorpanel.yaml configuration",
		Long: `Initialize a sensorpanel configuration file.

Creates .sensorpanel.yaml in the current directory (or the --config path)
and walks you through picking the serial port and Modbus settings. Flags
such as --serial-port pre-fill the answers.

Examples:
  sensorpanel init
  sensorpanel init --non-interactive --serial-port /dev/ttyUSB0
  sensorpanel init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommand(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing config file")
	cmd.Flags().BoolVar(&opts.NonInteractive, "non-interactive", false, "skip prompts, use defaults plus flags")
	addSensorFlags(cmd.Flags())
	return cmd
}

func initCommand(cmd *cobra.Command, opts initOptions) error {
	out := cmd.OutOrStdout()

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.ConfigFileName
	}

	if _, err := os.Stat(path); err == nil && !opts.Force {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg, err := config.LoadWithFlags("", cmd.Flags())
	if err != nil {
		return err
	}

	if !opts.NonInteractive {
		answers := newInitAnswers(cfg)
		if err := answers.form(portOptions(cfg.Device.Port)).Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or use --non-interactive flag")
		}
		if err := answers.apply(cfg); err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}

	if err := config.Write(path, cfg, true); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", path),
			"Check directory permissions")
	}

	fmt.Fprintln(out, ui.Success("Created "+path))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  sensorpanel          - Start the dashboard")
	fmt.Fprintln(out, "  sensorpanel --plain  - Print one line per refresh")
	fmt.Fprintln(out, "  sensorpanel ports    - List serial ports")
	return nil
}

// initAnswers holds the form fields. Text inputs stay strings until apply.
type initAnswers struct {
	Port      string
	Slave     string
	BaudRate  int
	Smoothing string
	Interval  string
}

func newInitAnswers(cfg *config.Config) *initAnswers {
	return &initAnswers{
		Port:      cfg.Device.Port,
		Slave:     strconv.Itoa(cfg.Device.SlaveAddress),
		BaudRate:  cfg.Device.BaudRate,
		Smoothing: strconv.FormatFloat(cfg.SmoothingFactor, 'f', -1, 64),
		Interval:  cfg.Interval.String(),
	}
}

func (a *initAnswers) form(ports []huh.Option[string]) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Serial port").
				Description("The USB/RS-485 adapter the tSENSE is wired to").
				Options(ports...).
				Value(&a.Port),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Modbus slave address").
				Description("1-247, the tSENSE ships with 1").
				Value(&a.Slave).
				Validate(func(s string) error {
					_, err := parseSlave(s)
					return err
				}),
			huh.NewSelect[int]().
				Title("Baud rate").
				Options(huh.NewOptions(baudRates...)...).
				Value(&a.BaudRate),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Smoothing factor").
				Description("Share of each new sample shown, 0 shows raw values").
				Value(&a.Smoothing).
				Validate(func(s string) error {
					_, err := parseSmoothing(s)
					return err
				}),
			huh.NewInput().
				Title("Refresh interval").
				Placeholder("1s").
				Value(&a.Interval).
				Validate(func(s string) error {
					_, err := parseInterval(s)
					return err
				}),
		),
	)
}

// apply copies the answers into cfg.
func (a *initAnswers) apply(cfg *config.Config) error {
	slave, err := parseSlave(a.Slave)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid slave address", "Use a number from 1 to 247")
	}
	alpha, err := parseSmoothing(a.Smoothing)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid smoothing factor", "Use a number from 0 to 1")
	}
	interval, err := parseInterval(a.Interval)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid interval", "Use a duration like 1s, 500ms or 1m")
	}

	cfg.Device.Port = strings.TrimSpace(a.Port)
	cfg.Device.SlaveAddress = slave
	cfg.Device.BaudRate = a.BaudRate
	cfg.SmoothingFactor = alpha
	cfg.Interval = interval
	return nil
}

// portOptions lists the detected ports after a simulate choice. A current
// port that isn't plugged in is kept so re-running init doesn't drop it.
func portOptions(current string) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("Simulate (no device)", "")}

	ports, err := portLister()
	if err != nil {
		ports = nil
	}
	found := current == ""
	for _, p := range ports {
		opts = append(opts, huh.NewOption(p.String(), p.Name))
		if p.Name == current {
			found = true
		}
	}
	if !found {
		opts = append(opts, huh.NewOption(current+"  (not detected)", current))
	}
	return opts
}

func parseSlave(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("slave address must be a number")
	}
	if n < 1 || n > 247 {
		return 0, fmt.Errorf("slave address must be between 1 and 247")
	}
	return n, nil
}

func parseSmoothing(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("smoothing factor must be a number")
	}
	if f < 0 || f > 1 {
		return 0, fmt.Errorf("smoothing factor must be between 0 and 1")
	}
	return f, nil
}

func parseInterval(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("interval must be a duration like 1s or 500ms")
	}
	if d < poller.MinInterval {
		return 0, fmt.Errorf("interval must be at least %s", poller.MinInterval)
	}
	return d, nil
}
