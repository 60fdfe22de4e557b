package main

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mentorflow/mentorflow/internal/config"
	"github.com/mentorflow/mentorflow/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"
)

type mailTemplate struct {
	file    string
	subject string
}

var mailTemplates = map[string]mailTemplate{
	domain.MailTypeInviteMember: {
		file:    "./templates/invite_member_email.html",
		subject: "MentorFlow - You have been added to the team",
	},
	domain.MailTypeWelcome: {
		file:    "./templates/welcome_email.html",
		subject: "MentorFlow - Welcome",
	},
}

// mailSender is the part of *mail.Client the worker sends with.
type mailSender interface {
	DialAndSend(messages ...*mail.Msg) error
}

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * templates
	 **********************************************/
	templates := make(map[string]*template.Template, len(mailTemplates))
	for mailType, mt := range mailTemplates {
		tmpl, err := template.ParseFiles(mt.file)
		if err != nil {
			logger.Error("failed to parse mail template", slog.String("file", mt.file), slog.String("error", err.Error()))
			return
		}
		templates[mailType] = tmpl
	}

	/**********************************************
	 * smtp client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("failed to create mail client", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// make sure the credentials work before consuming anything
	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("failed to connect to mail server", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.MailQueue,
		true,  // durable
		false, // keep the queue while no worker is connected
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to declare queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",    // let rabbitmq name the consumer
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to consume queue", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				handleDelivery(cfg, client, templates, msg)
			}
		}
	}()

	logger.Info("waiting for mail (CTRL+C to quit)")
	<-sigChan

	slog.Info("stopping mail worker")
	cancel()
	wg.Wait()
	slog.Info("mail worker stopped")
}

// handleDelivery sends one queued mail. Malformed messages are dropped, send failures are
// requeued.
func handleDelivery(cfg *config.Config, client mailSender, templates map[string]*template.Template, msg amqp.Delivery) {
	mailMessage := domain.MailMessage{}
	if err := json.Unmarshal(msg.Body, &mailMessage); err != nil {
		slog.Error("failed to decode mail message", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	slog.Info("mail received", slog.String("type", mailMessage.Type), slog.String("to", mailMessage.To))

	tmpl, ok := templates[mailMessage.Type]
	if !ok {
		slog.Error("unsupported mail type", slog.String("type", mailMessage.Type))
		_ = msg.Nack(false, false)
		return
	}

	m := mail.NewMsg()
	if err := m.From(cfg.Email.SMTP.Username); err != nil {
		slog.Error("failed to set sender", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	if err := m.To(mailMessage.To); err != nil {
		slog.Error("failed to set recipient", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	if err := m.SetBodyHTMLTemplate(tmpl, mailMessage.Data); err != nil {
		slog.Error("failed to render mail body", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	m.Subject(mailTemplates[mailMessage.Type].subject)

	if err := client.DialAndSend(m); err != nil {
		slog.Error("failed to send mail", slog.String("error", err.Error()))
		_ = msg.Nack(false, true) // requeue
		return
	}

	_ = msg.Ack(false)
}
