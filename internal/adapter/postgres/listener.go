package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Publisher receives the changes read from the database.
type Publisher interface {
	Publish(userID string)
	// Broadcast signals every subscriber; used after a reconnect when
	// notifications may have been missed.
	Broadcast()
}

// Listen forwards notifications on ChangesChannel to pub until ctx is done.
func Listen(ctx context.Context, connStr string, pub Publisher) error {
	l := pq.NewListener(connStr, time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logrus.WithError(err).WithField("event", ev).Warn("change listener")
		}
	})
	defer func() { _ = l.Close() }()

	if err := l.Listen(ChangesChannel); err != nil {
		return err
	}
	logrus.WithField("channel", ChangesChannel).Info("listening for changes")

	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-l.Notify:
			if n == nil {
				// Reconnected.
				pub.Broadcast()
				continue
			}
			pub.Publish(n.Extra)
		case <-ping.C:
			go func() { _ = l.Ping() }()
		}
	}
}
