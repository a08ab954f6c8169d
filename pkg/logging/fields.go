package logging

import "log/slog"

// Domain identifiers

func Channel(name string) slog.Attr {
	return slog.String("channel", name)
}

func Conn(id string) slog.Attr {
	return slog.String("conn_id", id)
}

func User(id string) slog.Attr {
	return slog.String("user_id", id)
}

func Appointment(id string) slog.Attr {
	return slog.String("appointment_id", id)
}

// Error handling

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
