// cmd/tools/session-init/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"partner-console/internal/common/api"
	"partner-console/internal/common/config"
)

func main() {
	saveCmd := flag.NewFlagSet("save", flag.ExitOnError)
	showCmd := flag.NewFlagSet("show", flag.ExitOnError)
	clearCmd := flag.NewFlagSet("clear", flag.ExitOnError)

	// Save command flags
	token := saveCmd.String("token", "", "Bearer token issued by the administration backend")
	userID := saveCmd.Int64("user", 0, "Numeric user ID the token belongs to (optional)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	store := api.NewFileSessionStore(cfg.Session.Dir, config.SessionKey(cfg.App))

	switch os.Args[1] {
	case "save":
		saveCmd.Parse(os.Args[2:])
		if *token == "" {
			fmt.Println("Error: token is required for save.")
			saveCmd.Usage()
			os.Exit(1)
		}
		sess := &api.Session{
			Token:   *token,
			UserID:  *userID,
			SavedAt: time.Now().UTC(),
		}
		if err := store.Save(sess); err != nil {
			fmt.Printf("Error saving session: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Session saved for %s\n", config.SessionKey(cfg.App))

	case "show":
		showCmd.Parse(os.Args[2:])
		sess, err := store.Load()
		if err != nil {
			fmt.Printf("Error loading session: %v\n", err)
			os.Exit(1)
		}
		if sess == nil {
			fmt.Println("No session found. Run 'session-init save -token <token>' first.")
			os.Exit(1)
		}
		fmt.Printf("Key:      %s\n", config.SessionKey(cfg.App))
		fmt.Printf("User ID:  %d\n", sess.UserID)
		fmt.Printf("Saved at: %s\n", sess.SavedAt.Format(time.RFC3339))
		fmt.Printf("Token:    %s\n", maskToken(sess.Token))

	case "clear":
		clearCmd.Parse(os.Args[2:])
		if err := store.Clear(); err != nil {
			fmt.Printf("Error clearing session: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Session cleared.")

	default:
		help()
		os.Exit(1)
	}
}

// maskToken keeps just enough of the token to recognise it in logs.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func help() {
	fmt.Println("Usage: session-init <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  save   -token <token> [-user <id>]   Persist a backend session token")
	fmt.Println("  show                                 Print the stored session (token masked)")
	fmt.Println("  clear                                Remove the stored session")
}
