package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	pb "learning-lab/proto/learning"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

const joinText = "joined"

// participant is one simulated chat connection.
type participant struct {
	name     string
	stream   grpc.BidiStreamingClient[pb.ChatRequest, pb.ChatResponse]
	mu       sync.Mutex
	received int
	foreign  int // messages attributed to someone else
	farewell bool
}

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	count := flag.Int("participants", 10, "number of concurrent participants")
	messages := flag.Int("messages", 20, "messages sent by each participant")
	settle := flag.Duration("settle", 500*time.Millisecond, "time left for in-flight messages before leaving")
	flag.Parse()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()), pb.WithCodec())
	if err != nil {
		log.Fatalf("could not connect to %s: %v", *addr, err)
	}
	defer conn.Close()
	client := pb.NewLearningClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	participants, err := joinAll(ctx, client, *count)
	if err != nil {
		log.Fatalf("join failed: %v", err)
	}

	start := time.Now()
	if err := chatter(participants, *messages); err != nil {
		log.Fatalf("send failed: %v", err)
	}
	time.Sleep(*settle)
	elapsed := time.Since(start)

	if err := leaveAll(participants); err != nil {
		log.Fatalf("leave failed: %v", err)
	}

	if !report(participants, *count, *messages, elapsed) {
		os.Exit(1)
	}
}

// joinAll opens every stream and registers each participant with a first message.
// The registration messages are counted as chatter by the others.
func joinAll(ctx context.Context, client pb.LearningClient, count int) ([]*participant, error) {
	participants := make([]*participant, 0, count)
	for i := 0; i < count; i++ {
		name := "tester-" + uuid.NewString()[:8]
		stream, err := client.Chat(metadata.AppendToOutgoingContext(ctx, "username", name))
		if err != nil {
			return nil, err
		}
		p := &participant{name: name, stream: stream}
		go p.listen()
		participants = append(participants, p)
	}
	return participants, nil
}

func (p *participant) listen() {
	for {
		resp, err := p.stream.Recv()
		if err != nil {
			if !stderrors.Is(err, io.EOF) {
				color.Error.Printf("%s: %v\n", p.name, err)
			}
			return
		}
		p.mu.Lock()
		switch {
		case resp.GetUsername() == "Server":
			p.farewell = true
		case resp.GetMessage() != "Left the chat" && resp.GetMessage() != joinText:
			p.received++
			if resp.GetUsername() != p.name {
				p.foreign++
			}
		}
		p.mu.Unlock()
	}
}

func chatter(participants []*participant, messages int) error {
	// Everyone registers first so that no message races a registration.
	for _, p := range participants {
		if err := p.stream.Send(&pb.ChatRequest{Message: joinText}); err != nil {
			return err
		}
	}
	time.Sleep(200 * time.Millisecond)

	var g errgroup.Group
	for _, p := range participants {
		g.Go(func() error {
			for i := 0; i < messages; i++ {
				if err := p.stream.Send(&pb.ChatRequest{Message: fmt.Sprintf("message %d", i)}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func leaveAll(participants []*participant) error {
	for _, p := range participants {
		if err := p.stream.CloseSend(); err != nil {
			return err
		}
	}
	time.Sleep(200 * time.Millisecond)
	return nil
}

func report(participants []*participant, count, messages int, elapsed time.Duration) bool {
	expected := (count - 1) * messages
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Participant", "Received", "Expected", "Farewell"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	ok := true
	total := 0
	for _, p := range participants {
		p.mu.Lock()
		received, foreign, farewell := p.received, p.foreign, p.farewell
		p.mu.Unlock()
		total += received
		if received != expected || foreign != received || !farewell {
			ok = false
		}
		table.Append([]string{p.name, strconv.Itoa(received), strconv.Itoa(expected), strconv.FormatBool(farewell)})
	}
	table.SetFooter([]string{"Total", strconv.Itoa(total), strconv.Itoa(expected * count), elapsed.Round(time.Millisecond).String()})
	table.Render()

	if ok {
		color.Success.Printf("fan-out complete: %d deliveries\n", total)
	} else {
		color.Error.Println("fan-out incomplete: some participants missed messages")
	}
	return ok
}
