package contracts

import "context"

// Registry is the room membership layer. It owns which connections are
// joined to which rooms and is the only place that fans messages out.
type Registry interface {
	// Register tracks a new connection. The connection is in no room
	// until it joins one.
	Register(c Client)
	// Unregister removes the connection from every room it joined and
	// forgets it. Called exactly once per connection teardown.
	Unregister(c Client)
	// Join adds the connection to the room, creating the room on first
	// join. Joining a room twice is the same as joining it once.
	Join(c Client, roomID string)
	// Leave removes the connection from the room; no-op if absent. The
	// room is garbage collected when its last member leaves.
	Leave(c Client, roomID string)
	// Broadcast delivers data to every member of the room except the
	// connection identified by exceptID. An empty exceptID delivers to
	// all members. Unknown or empty rooms are a silent no-op.
	Broadcast(ctx context.Context, roomID, exceptID string, data []byte)
}

// Client is the minimal connection surface the registry needs.
type Client interface {
	ID() string
	Send(ctx context.Context, data []byte) error
	Close()
}
