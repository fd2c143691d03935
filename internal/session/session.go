// Package session implements the interactive menu-driven Tesuto session.
// It renders emulation and device tables, prompts for numbered selections,
// and dispatches management actions through the API client.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/networktocode/ntc-tesuto/internal/tesuto"
)

// Notifier delivers emulation state-change events to an external channel.
// A nil Notifier disables delivery.
type Notifier interface {
	SendEmulationEvent(action string, emulationNames []string, endAt time.Time) error
	IsEnabled() bool
}

// Session drives one interactive operator session over the Tesuto API.
// Input and output are injected so tests can script the conversation.
type Session struct {
	api      tesuto.Client
	in       *bufio.Reader
	out      io.Writer
	notifier Notifier

	// now is swappable for timer tests
	now func() time.Time
}

// New creates a session reading operator input from in and writing to out.
func New(api tesuto.Client, in io.Reader, out io.Writer) *Session {
	return &Session{
		api: api,
		in:  bufio.NewReader(in),
		out: out,
		now: time.Now,
	}
}

// SetNotifier configures optional state-change notifications.
func (s *Session) SetNotifier(n Notifier) {
	s.notifier = n
}

// Run shows the emulation list and loops until the operator exits with
// Ctrl+D. Listing failures and rejected tokens abort the session.
func (s *Session) Run(ctx context.Context) error {
	for {
		emulations, err := s.api.ListEmulations(ctx)
		if err != nil {
			return fmt.Errorf("failed to list emulations: %w", err)
		}

		s.printEmulationTable(emulations)
		fmt.Fprintln(s.out, "Ctrl+D to exit | Enter to refresh")

		selections, eof := s.readSelections("Select emulation(s)", len(emulations))
		if eof {
			fmt.Fprintln(s.out)
			return nil
		}
		if len(selections) == 0 {
			continue
		}

		selected := make([]tesuto.Emulation, 0, len(selections))
		for _, n := range selections {
			selected = append(selected, emulations[n-1])
		}

		if err := s.manageEmulations(ctx, selected); err != nil {
			return err
		}
	}
}

//
// Menus
//

// menuItem is one numbered entry of an interactive menu. Items with exit set
// return control to the emulation list after running, mirroring actions that
// complete a workflow.
type menuItem struct {
	label string
	run   func(ctx context.Context) error
	exit  bool
}

// showMenu renders a titled menu and dispatches the chosen item. Option 0 and
// Ctrl+D both back out.
func (s *Session) showMenu(ctx context.Context, title, prologue string, items []menuItem) error {
	for {
		fmt.Fprintf(s.out, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
		if prologue != "" {
			fmt.Fprintf(s.out, "%s\n\n", prologue)
		}
		for i, item := range items {
			fmt.Fprintf(s.out, " %d. %s\n", i+1, item.label)
		}
		fmt.Fprintln(s.out, " 0. Back")

		raw, err := s.readLine("Select an option")
		if err != nil {
			return nil
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		choice, err := strconv.Atoi(raw)
		if err != nil || choice < 0 || choice > len(items) {
			fmt.Fprintf(s.out, "Invalid choice: %s\n", raw)
			continue
		}
		if choice == 0 {
			return nil
		}

		item := items[choice-1]
		if err := item.run(ctx); err != nil {
			return err
		}
		if item.exit {
			return nil
		}
	}
}

func (s *Session) manageEmulations(ctx context.Context, emulations []tesuto.Emulation) error {
	lines := make([]string, 0, len(emulations))
	for _, e := range emulations {
		lines = append(lines, fmt.Sprintf("%s (%s)", e.Name, e.Status))
	}

	items := []menuItem{
		{label: "Start", exit: true, run: func(ctx context.Context) error {
			return s.toggleEmulations(ctx, emulations, tesuto.ActionStart, false)
		}},
		{label: "Start w/timer", exit: true, run: func(ctx context.Context) error {
			return s.toggleEmulations(ctx, emulations, tesuto.ActionStart, true)
		}},
		{label: "Stop", exit: true, run: func(ctx context.Context) error {
			return s.toggleEmulations(ctx, emulations, tesuto.ActionSuspend, false)
		}},
		{label: "Delete", exit: true, run: func(ctx context.Context) error {
			return s.toggleEmulations(ctx, emulations, tesuto.ActionStop, false)
		}},
	}

	// Single emulation: drill into its devices. Multiple emulations: bulk
	// enable/disable by hostname substring across all of them.
	if len(emulations) == 1 {
		items = append(items, menuItem{label: "Show Devices", run: func(ctx context.Context) error {
			return s.selectDevices(ctx, emulations[0].ID)
		}})
	} else {
		items = append(items, menuItem{label: "Multi-Emulation Enable/Disable Devices", run: func(ctx context.Context) error {
			return s.toggleDevicesAcrossEmulations(ctx, emulations)
		}})
	}

	return s.showMenu(ctx, "Manage Emulations", strings.Join(lines, "\n"), items)
}

func (s *Session) manageDevices(ctx context.Context, devices []tesuto.Device) error {
	lines := make([]string, 0, len(devices))
	for _, d := range devices {
		lines = append(lines, fmt.Sprintf("%s (%s)", d.Name, enabledLabel(d.IsEnabled)))
	}

	items := []menuItem{
		{label: "Enable", exit: true, run: func(ctx context.Context) error {
			return s.toggleDevices(ctx, devices, true, true)
		}},
		{label: "Disable", exit: true, run: func(ctx context.Context) error {
			return s.toggleDevices(ctx, devices, false, true)
		}},
	}

	return s.showMenu(ctx, "Emulation > Devices", strings.Join(lines, "\n"), items)
}

//
// Emulation/device management
//

// toggleEmulations transitions every selected emulation to the given action.
// With withTimer set the operator is prompted for a run duration and the
// emulation is scheduled to end that many hours out.
func (s *Session) toggleEmulations(ctx context.Context, emulations []tesuto.Emulation, action string, withTimer bool) error {
	var endAt int64
	if action == tesuto.ActionStart && withTimer {
		hours, eof := s.promptHours()
		if eof {
			return nil
		}
		endAt = s.now().UTC().Add(time.Duration(hours) * time.Hour).Unix()
	}

	for _, emulation := range emulations {
		if err := s.api.SetEmulationAction(ctx, emulation.ID, action, endAt); err != nil {
			if errors.Is(err, tesuto.ErrInvalidToken) {
				return err
			}
			fmt.Fprintf(s.out, "Failed to change status to '%s' for emulation %s: %v\n", action, emulation.Name, err)
			break
		}

		if endAt != 0 {
			ending := time.Unix(endAt, 0).UTC().Format("2006-01-02 15:04 MST")
			fmt.Fprintf(s.out, "Set emulation %s to %s (ending at %s)\n", emulation.Name, action, ending)
		} else {
			fmt.Fprintf(s.out, "Set emulation %s to %s\n", emulation.Name, action)
		}
	}

	s.notify(action, emulations, endAt)
	s.pause()
	return nil
}

// selectDevices shows the device table for an emulation and lets the
// operator pick devices to manage.
func (s *Session) selectDevices(ctx context.Context, emulationID string) error {
	for {
		devices, err := s.api.ListDevices(ctx, emulationID)
		if err != nil {
			if errors.Is(err, tesuto.ErrInvalidToken) {
				return err
			}
			return fmt.Errorf("failed to list devices for emulation %s: %w", emulationID, err)
		}

		s.printDeviceTable(devices)
		fmt.Fprintln(s.out, "Ctrl+D to exit | Enter to refresh")

		selections, eof := s.readSelections("Select device(s)", len(devices))
		if eof {
			fmt.Fprintln(s.out)
			return nil
		}
		if len(selections) == 0 {
			continue
		}

		selected := make([]tesuto.Device, 0, len(selections))
		for _, n := range selections {
			selected = append(selected, devices[n-1])
		}

		if err := s.manageDevices(ctx, selected); err != nil {
			return err
		}
	}
}

// toggleDevices enables or disables each device in turn. The pause argument
// suppresses the trailing "press enter" prompt for callers that batch
// multiple toggles.
func (s *Session) toggleDevices(ctx context.Context, devices []tesuto.Device, enabled, pause bool) error {
	for _, device := range devices {
		if err := s.api.SetDeviceEnabled(ctx, device.EmulationID, device.ID, enabled); err != nil {
			if errors.Is(err, tesuto.ErrInvalidToken) {
				return err
			}
			fmt.Fprintf(s.out, "Failed to toggle status for device %s: %v\n", device.Name, err)
			break
		}
		fmt.Fprintf(s.out, "%s device %s\n", enabledLabel(enabled), device.Name)
	}

	if pause {
		s.pause()
	}
	return nil
}

// toggleDevicesAcrossEmulations bulk-enables or disables devices whose names
// contain any of the operator-supplied substrings, across every selected
// emulation. With devices named csr1,vmx1,vmx2,eos-spine1 an input of
// "csr,vmx" matches csr1, vmx1, and vmx2.
func (s *Session) toggleDevicesAcrossEmulations(ctx context.Context, emulations []tesuto.Emulation) error {
	fmt.Fprintln(s.out, "Using a Comma Separated List")
	raw, err := s.readLine("Enter Devices (or part of hostname)")
	if err != nil {
		return nil
	}
	substrings := splitSubstrings(raw)
	if len(substrings) == 0 {
		fmt.Fprintln(s.out, "No device names given")
		return nil
	}

	mode, err := s.readLine("Enable or Disable [e/d]")
	if err != nil {
		return nil
	}
	enabled := strings.ToLower(strings.TrimSpace(mode)) != "d"

	for _, emulation := range emulations {
		devices, err := s.api.ListDevices(ctx, emulation.ID)
		if err != nil {
			if errors.Is(err, tesuto.ErrInvalidToken) {
				return err
			}
			fmt.Fprintf(s.out, "Failed to list devices for emulation %s: %v\n", emulation.Name, err)
			continue
		}

		fmt.Fprintf(s.out, "\nUpdating devices for emulation: %s\n", emulation.Name)
		if err := s.toggleDevices(ctx, matchDevices(devices, substrings), enabled, false); err != nil {
			return err
		}
	}

	s.pause()
	return nil
}

// matchDevices returns the devices whose lowercased name contains any of the
// given substrings.
func matchDevices(devices []tesuto.Device, substrings []string) []tesuto.Device {
	var matched []tesuto.Device
	for _, device := range devices {
		name := strings.ToLower(device.Name)
		for _, sub := range substrings {
			if strings.Contains(name, sub) {
				matched = append(matched, device)
				break
			}
		}
	}
	return matched
}

// splitSubstrings normalizes a comma-separated hostname fragment list.
func splitSubstrings(raw string) []string {
	var out []string
	for _, part := range strings.Split(strings.ToLower(raw), ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

//
// Prompts
//

// readLine prints a prompt and reads one line of operator input. The error
// is io.EOF when the operator hits Ctrl+D.
func (s *Session) readLine(prompt string) (string, error) {
	fmt.Fprintf(s.out, "%s: ", prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readSelections prompts until the operator enters a valid selection. The
// second return value is true when the operator backed out with Ctrl+D.
func (s *Session) readSelections(prompt string, max int) ([]int, bool) {
	for {
		raw, err := s.readLine(prompt)
		if err != nil {
			return nil, true
		}

		selections, parseErr := ParseSelections(raw, max)
		if parseErr != nil {
			var invalid *InvalidChoiceError
			if errors.As(parseErr, &invalid) {
				fmt.Fprintf(s.out, "Invalid choice: %s\n", invalid.Choice)
				continue
			}
			fmt.Fprintf(s.out, "Invalid selection: %v\n", parseErr)
			continue
		}

		return selections, false
	}
}

// promptHours asks for a run duration between 1 and 24 hours, reprompting on
// invalid input. The second return value is true on Ctrl+D.
func (s *Session) promptHours() (int, bool) {
	for {
		raw, err := s.readLine("Hours to run (1-24)")
		if err != nil {
			return 0, true
		}

		hours, convErr := strconv.Atoi(strings.TrimSpace(raw))
		if convErr != nil || hours < 1 || hours > 24 {
			fmt.Fprintf(s.out, "Invalid choice: %s\n", strings.TrimSpace(raw))
			continue
		}
		return hours, false
	}
}

// pause waits for the operator to acknowledge before the menu redraws.
func (s *Session) pause() {
	fmt.Fprint(s.out, "Press [enter] to continue...")
	_, _ = s.in.ReadString('\n') // nolint:errcheck // EOF here just skips the pause
	fmt.Fprintln(s.out)
}

// notify reports a state change through the configured notifier, if any.
// Delivery failures are surfaced as warnings, never as session errors.
func (s *Session) notify(action string, emulations []tesuto.Emulation, endAt int64) {
	if s.notifier == nil || !s.notifier.IsEnabled() {
		return
	}

	names := make([]string, 0, len(emulations))
	for _, e := range emulations {
		names = append(names, e.Name)
	}

	var ending time.Time
	if endAt != 0 {
		ending = time.Unix(endAt, 0).UTC()
	}

	if err := s.notifier.SendEmulationEvent(action, names, ending); err != nil {
		fmt.Fprintf(s.out, "⚠️  Failed to send notification: %v\n", err)
	}
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "Enabled"
	}
	return "Disabled"
}
