package notifier

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"gopkg.in/irc.v4"

	"reviewrot/internal/config"
	"reviewrot/pkg/models"
)

// ircRecordLimit caps how many reviews are announced per channel. The cap
// is not configurable; it protects the target channel from flooding.
const ircRecordLimit = 20

const ircOverflowNotice = "Only the first 20 reviews are shown here. Use the email report for the full list."

var (
	ircOpeningBanner = "\x02" + strings.Repeat("-", 45) + " Code Review Reminder " + strings.Repeat("-", 45) + "\x02"
	ircClosingBanner = "\x02" + strings.Repeat("-", 112) + "\x02"
)

// IRCNotifier announces reviews to one or more IRC channels.
type IRCNotifier struct {
	server   string
	port     int
	nick     string
	channels []string

	// Dial is replaceable for tests; nil means plain TCP.
	Dial func(addr string) (io.ReadWriteCloser, error)
}

// NewIRCNotifier creates a new IRC notifier
func NewIRCNotifier(cfg *config.Config, channels []string) *IRCNotifier {
	nick := cfg.IRC.Nick
	if nick == "" {
		nick = "reviewrot"
	}
	port := cfg.IRC.Port
	if port == 0 {
		port = 6667
	}
	return &IRCNotifier{
		server:   cfg.IRC.Server,
		port:     port,
		nick:     nick,
		channels: channels,
	}
}

// Notify connects, announces at most ircRecordLimit reviews per channel
// framed by banners, and always disconnects, even on a partial send.
func (n *IRCNotifier) Notify(reviews []models.Review) error {
	if len(n.channels) == 0 || len(reviews) == 0 {
		return nil
	}

	dial := n.Dial
	if dial == nil {
		dial = func(addr string) (io.ReadWriteCloser, error) {
			return net.DialTimeout("tcp", addr, 15*time.Second)
		}
	}

	addr := fmt.Sprintf("%s:%d", n.server, n.port)
	rwc, err := dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to IRC server %s: %v", addr, err)
	}
	defer rwc.Close()

	conn := irc.NewConn(rwc)
	if err := n.register(conn); err != nil {
		return err
	}

	if err := n.announce(conn, reviews); err != nil {
		return err
	}

	// Best effort; the deferred close tears the connection down anyway.
	if err := conn.WriteMessage(&irc.Message{Command: "QUIT", Params: []string{"done"}}); err != nil {
		slog.Warn("Error sending IRC QUIT", "error", err)
	}

	slog.Info("IRC announcement sent", "server", n.server, "channels", n.channels)
	return nil
}

// register performs the NICK/USER handshake and waits for the server
// welcome, answering pings along the way.
func (n *IRCNotifier) register(conn *irc.Conn) error {
	if err := conn.WriteMessage(&irc.Message{Command: "NICK", Params: []string{n.nick}}); err != nil {
		return fmt.Errorf("irc registration failed: %v", err)
	}
	if err := conn.WriteMessage(&irc.Message{Command: "USER", Params: []string{n.nick, "0", "*", n.nick}}); err != nil {
		return fmt.Errorf("irc registration failed: %v", err)
	}

	for {
		msg, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("irc registration failed: %v", err)
		}
		switch msg.Command {
		case "PING":
			pong := &irc.Message{Command: "PONG", Params: msg.Params}
			if err := conn.WriteMessage(pong); err != nil {
				return fmt.Errorf("irc registration failed: %v", err)
			}
		case "001": // RPL_WELCOME
			return nil
		case "433": // ERR_NICKNAMEINUSE
			return fmt.Errorf("irc nick already in use: %s", n.nick)
		case "ERROR":
			return fmt.Errorf("irc server error: %s", strings.Join(msg.Params, " "))
		}
	}
}

func (n *IRCNotifier) announce(conn *irc.Conn, reviews []models.Review) error {
	total := len(reviews)
	shown := reviews
	if total > ircRecordLimit {
		shown = reviews[:ircRecordLimit]
	}

	for _, channel := range n.channels {
		if err := n.privmsg(conn, channel, ircOpeningBanner); err != nil {
			return err
		}
		for i := range shown {
			line := shown[i].Format(models.StyleIRC, i, total, nil)
			if err := n.privmsg(conn, channel, line); err != nil {
				return err
			}
		}
		if total > ircRecordLimit {
			if err := n.privmsg(conn, channel, ircOverflowNotice); err != nil {
				return err
			}
		}
		if err := n.privmsg(conn, channel, ircClosingBanner); err != nil {
			return err
		}
	}
	return nil
}

func (n *IRCNotifier) privmsg(conn *irc.Conn, channel, text string) error {
	msg := &irc.Message{Command: "PRIVMSG", Params: []string{channel, text}}
	if err := conn.WriteMessage(msg); err != nil {
		return fmt.Errorf("error sending to %s: %v", channel, err)
	}
	return nil
}
