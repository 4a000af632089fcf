package notifier

import (
	"context"
	"sync"
	"time"

	"medtrack/internal/metrics"

	"github.com/sirupsen/logrus"
)

const (
	queueSize      = 256
	workerCount    = 2
	deliverTimeout = 15 * time.Second
)

// EmailSender delivers a single email message.
type EmailSender interface {
	Send(to, subject, body string) error
}

// TopicPublisher broadcasts a message to the notification topic.
type TopicPublisher interface {
	Publish(ctx context.Context, subject, body string) error
}

type channel string

const (
	channelEmail channel = "email"
	channelTopic channel = "topic"
)

type task struct {
	channel channel
	to      string
	subject string
	body    string
}

// Dispatcher delivers notifications in the background, decoupled from request
// handling. Delivery is best-effort: failures are logged and counted, never
// retried, never surfaced to the caller.
type Dispatcher struct {
	log          *logrus.Logger
	email        EmailSender
	topic        TopicPublisher
	emailEnabled bool
	topicEnabled bool

	tasks chan task
	wg    sync.WaitGroup
	once  sync.Once
}

func NewDispatcher(log *logrus.Logger, email EmailSender, topic TopicPublisher, emailEnabled, topicEnabled bool) *Dispatcher {
	d := &Dispatcher{
		log:          log,
		email:        email,
		topic:        topic,
		emailEnabled: emailEnabled,
		topicEnabled: topicEnabled,
		tasks:        make(chan task, queueSize),
	}

	for i := 0; i < workerCount; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	return d
}

// EnqueueEmail queues an email notification. Never blocks: when the queue is
// full the notification is dropped with a logged warning.
func (d *Dispatcher) EnqueueEmail(to, subject, body string) {
	if !d.emailEnabled || d.email == nil {
		return
	}
	d.enqueue(task{channel: channelEmail, to: to, subject: subject, body: body})
}

// EnqueueTopic queues a topic broadcast.
func (d *Dispatcher) EnqueueTopic(subject, body string) {
	if !d.topicEnabled || d.topic == nil {
		return
	}
	d.enqueue(task{channel: channelTopic, subject: subject, body: body})
}

func (d *Dispatcher) enqueue(t task) {
	select {
	case d.tasks <- t:
	default:
		metrics.NotificationsTotal.WithLabelValues(string(t.channel), "dropped").Inc()
		d.log.Warnf("Notification queue full, dropping %s notification: %s", t.channel, t.subject)
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for t := range d.tasks {
		d.deliver(t)
	}
}

func (d *Dispatcher) deliver(t task) {
	var err error
	switch t.channel {
	case channelEmail:
		err = d.email.Send(t.to, t.subject, t.body)
	case channelTopic:
		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		err = d.topic.Publish(ctx, t.subject, t.body)
		cancel()
	}

	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(string(t.channel), "failed").Inc()
		d.log.Warnf("Failed to deliver %s notification %q: %+v", t.channel, t.subject, err)
		return
	}

	metrics.NotificationsTotal.WithLabelValues(string(t.channel), "sent").Inc()
	d.log.Infof("Delivered %s notification: %s", t.channel, t.subject)
}

// Close stops accepting notifications and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.tasks)
	})
	d.wg.Wait()
}
