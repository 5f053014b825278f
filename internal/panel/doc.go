// Package panel implements the terminal dashboard for sensor readings.
//
// The dashboard shows a header naming the source, a "Last updated" line and
// one card per channel. It uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: the cards, the last update time and any error to show
//   - Update: processes keystrokes, window resizes and poll results
//   - View: renders the current state to a string
//
// # Message Flow
//
// The panel never talks to the sensor. A poller.Poller runs in its own
// goroutine and hands each result to Sink, which forwards it to the running
// program as a ResultMsg:
//
//  1. The poller publishes the Initial snapshot, then one result per tick
//  2. Sink calls tea.Program.Send(ResultMsg(result))
//  3. Update applies the result to the cards
//  4. View re-renders
//
// # Channels
//
// Cards are ordered CO₂, Temperature, Humidity. Channels the panel does not
// know get a card appended in the order they first appear, including ones
// that only show up after the initial snapshot. When a refresh fails, every
// card keeps its last value and is marked stale.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	r           - Refresh now
//	?           - Toggle full help
package panel
