package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/novamart/storefront-api/config"
	"github.com/novamart/storefront-api/pkg/helpers"
	"github.com/novamart/storefront-api/pkg/mailer"
)

func main() {
	cfg := config.Load()
	if !cfg.MailSendEnabled {
		log.Println("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" {
		log.Fatal("RabbitMQ not configured")
	}
	queue := cfg.RabbitMQEmailQueue
	if queue == "" {
		queue = helpers.DefaultEmailQueue
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			handle(mg, msg)
		}
	}()

	log.Printf("email worker consuming %q", queue)
	<-stop
	log.Println("email worker shutting down")
	_ = ch.Close()
	<-done
}

func handle(mg *mailer.Mailgun, msg amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		log.Printf("bad message: %v", err)
		_ = msg.Nack(false, false)
		return
	}
	if job.To == "" {
		log.Println("message without recipient, dropping")
		_ = msg.Nack(false, false)
		return
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailer.Render(job.Template, job.Data)
		if err != nil {
			log.Printf("render %q: %v", job.Template, err)
			_ = msg.Nack(false, false)
			return
		}
		subject, text, html = s, t, h
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := mg.Send(ctx, job.To, subject, text, html); err != nil {
		log.Printf("send to %s: %v", job.To, err)
		// requeue once, the broker drops it on the second failure
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}
	_ = msg.Ack(false)
}
