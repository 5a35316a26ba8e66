package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	pb "learning-lab/proto/learning"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const usage = `usage: client <command> [args]

commands:
  ping                 send a ping
  average N [N...]     stream numbers and print their average
  primes N             print the prime decomposition of N
  chat                 join the chat as $CHAT_USERNAME (default)`

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"CHAT_SERVER_ADDR,default=localhost:8080"`
	Username      string `env:"CHAT_USERNAME"`
	LogLevel      string `env:"LOG_LEVEL,default=WARN"`
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run(args []string) (int, error) {
	// 1. Load configuration from environment variables.
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Establish connection to the server.
	conn, err := grpc.NewClient(config.ServerAddress,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		pb.WithCodec(),
	)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()
	client := pb.NewLearningClient(conn)

	command := "chat"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "ping":
		err = ping(ctx, client)
	case "average":
		numbers, parseErr := parseInt32s(args)
		if parseErr != nil {
			return exitConfig, parseErr
		}
		err = average(ctx, client, numbers)
	case "primes":
		if len(args) != 1 {
			return exitConfig, fmt.Errorf("primes expects exactly one number\n%s", usage)
		}
		n, parseErr := strconv.ParseInt(args[0], 10, 64)
		if parseErr != nil {
			return exitConfig, fmt.Errorf("invalid number %q: %w", args[0], parseErr)
		}
		err = primes(ctx, client, n)
	case "chat":
		if config.Username == "" {
			return exitConfig, fmt.Errorf("CHAT_USERNAME is required to chat")
		}
		err = chat(ctx, client, config.Username, os.Stdin)
	default:
		return exitConfig, fmt.Errorf("unknown command %q\n%s", command, usage)
	}

	if err != nil {
		if ctx.Err() != nil {
			return exitOK, nil
		}
		return exitRuntime, err
	}
	return exitOK, nil
}

func ping(ctx context.Context, client pb.LearningClient) error {
	resp, err := client.PingPong(ctx, &pb.PingRequest{Message: "Ping"})
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	fmt.Println(resp.GetMessage())
	return nil
}

func average(ctx context.Context, client pb.LearningClient, numbers []int32) error {
	stream, err := client.ComputeAverage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	for _, n := range numbers {
		if err := stream.Send(&pb.ComputeAverageRequest{Number: n}); err != nil {
			return fmt.Errorf("failed to send %d: %w", n, err)
		}
	}
	resp, err := stream.CloseAndRecv()
	if err != nil {
		return fmt.Errorf("average failed: %w", err)
	}
	fmt.Println(resp.GetAverage())
	return nil
}

func primes(ctx context.Context, client pb.LearningClient, n int64) error {
	stream, err := client.PrimeNumberDecomposition(ctx, &pb.PrimeNumberDecompositionRequest{Number: n})
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	for {
		resp, err := stream.Recv()
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decomposition failed: %w", err)
		}
		fmt.Println(resp.GetPrimeFactor())
	}
}

// chat sends every line read from in and prints what the others say.
// Closing in (Ctrl+D) leaves the chat; the server then says goodbye.
func chat(ctx context.Context, client pb.LearningClient, username string, in io.Reader) error {
	ctx = metadata.AppendToOutgoingContext(ctx, "username", username)
	stream, err := client.Chat(ctx)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}

	color.Info.Printf(">>> Connected as %s (Ctrl+D to leave)\n", username)

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if err := stream.Send(&pb.ChatRequest{Message: scanner.Text()}); err != nil {
				return
			}
		}
		_ = stream.CloseSend()
	}()

	for {
		resp, err := stream.Recv()
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("stream error: %w", err)
		}
		printChatLine(resp)
	}
}

func printChatLine(resp *pb.ChatResponse) {
	switch {
	case resp.GetUsername() == "Server":
		color.Warn.Printf("[%s] %s\n", resp.GetUsername(), resp.GetMessage())
	case resp.GetMessage() == "Left the chat":
		color.Gray.Printf("%s left the chat\n", resp.GetUsername())
	default:
		color.Cyan.Printf("%s: ", resp.GetUsername())
		fmt.Println(resp.GetMessage())
	}
}

func parseInt32s(args []string) ([]int32, error) {
	numbers := make([]int32, 0, len(args))
	for _, arg := range args {
		n, err := strconv.ParseInt(arg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", arg, err)
		}
		numbers = append(numbers, int32(n))
	}
	return numbers, nil
}
