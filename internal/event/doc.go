/*
Package event provides a type-safe pub/sub event system for the bmadhub server.

The event system decouples the registry, the manifest watcher and the HTTP
event stream: publishers emit events and subscribers react to them without
direct dependencies.

# Architecture

The package is built on top of watermill's gochannel for infrastructure while
maintaining direct-call semantics to preserve type information. It provides
both synchronous and asynchronous event publishing patterns.

# Event Types

Scan Events:
  - scan.started: A registry scan began
  - scan.completed: A new snapshot was published
  - scan.skipped: A scan found no installation

Watcher Events:
  - watch.triggered: The manifest watcher requested a rescan

# Basic Usage

Publishing events:

	// Asynchronous publishing (non-blocking)
	event.Publish(event.Event{
		Type: event.ScanCompleted,
		Data: event.ScanCompletedData{
			Snapshot: info,
		},
	})

Subscribing to specific events:

	unsubscribe := event.Subscribe(event.ScanCompleted, func(e event.Event) {
		data := e.Data.(event.ScanCompletedData)
		log.Info("scan completed", "commands", data.Snapshot.Commands)
	})
	defer unsubscribe()

Subscribing to all events:

	unsubscribe := event.SubscribeAll(func(e event.Event) {
		log.Debug("event received", "type", e.Type)
	})
	defer unsubscribe()

# Subscriber Safety Guidelines

When using PublishSync, subscribers are called synchronously in the publisher's
goroutine. To avoid blocking or deadlocks, subscribers MUST:

  - Complete quickly (avoid long-running operations)
  - Use non-blocking channel sends (select with default case)
  - Never call Publish/PublishSync from within a subscriber (no re-entrant publishing)
  - Never acquire locks that the publisher might hold

Example of a safe subscriber:

	event.SubscribeAll(func(e event.Event) {
	    select {
	    case eventChan <- e:
	        // Event sent successfully
	    default:
	        // Channel full, drop event to avoid blocking
	        log.Warn("Event dropped due to full channel", "type", e.Type)
	    }
	})

# Custom Event Bus

For testing or isolation, you can create custom bus instances:

	bus := event.NewBus()
	defer bus.Close()

	unsubscribe := bus.Subscribe(event.ScanCompleted, handler)
	bus.PublishSync(event.Event{Type: event.ScanCompleted, Data: data})

# Testing

The package provides utilities for testing:

	// Reset global bus state (use in test cleanup)
	event.Reset()

# Thread Safety

The event bus is thread-safe and can be used concurrently from multiple
goroutines. Both publishing and subscribing operations are protected by
internal synchronization.

# Integration with Watermill

The package uses watermill's gochannel internally, providing access to the
underlying pubsub infrastructure for advanced use cases:

	pubsub := event.PubSub()
	// Use watermill features like middleware, routing, etc.

This allows future migration to distributed message brokers if needed while
maintaining the current API.
*/
package event
