// cmd/hashpw/main.go prints a bcrypt hash for seeding accounts by hand.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/your-org/bookstore-backend/internal/pkg/auth"
)

func main() {
	cost := flag.Int("cost", 12, "bcrypt cost")
	skipPolicy := flag.Bool("skip-policy", false, "hash the password even if it breaks the password policy")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-cost n] [-skip-policy] <password>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	password := flag.Arg(0)

	if !*skipPolicy {
		if err := auth.ValidatePassword(password); err != nil {
			log.Fatalf("Rejected: %v (use -skip-policy to hash it anyway)", err)
		}
	}

	manager := auth.NewPasswordManager(*cost)
	hash, err := manager.HashPassword(password)
	if err != nil {
		log.Fatal("Error generating hash: ", err)
	}

	if !manager.VerifyPassword(password, hash) {
		log.Fatal("Hash verification failed")
	}

	fmt.Println(hash)
}
