package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"blogql/config"
	"blogql/database"
	"blogql/database/model"
	"blogql/logger"
	"blogql/web"
	"blogql/web/service"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}
	defer logger.CloseLogger()

	err := database.InitDB(config.GetDBPath())
	if err != nil {
		log.Fatal(err)
	}

	server := web.NewServer()
	err = server.Start()
	if err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			err := server.Stop()
			if err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			err = server.Start()
			if err != nil {
				log.Println(err)
				return
			}
		default:
			_ = server.Stop()
			return
		}
	}
}

func migrateDb() {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("migration done")
}

func setUserRole(subject string, roleName string, grant bool) {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}

	role, ok := model.RoleFromName(roleName)
	if !ok {
		fmt.Println("unknown role:", roleName)
		return
	}

	userService := service.UserService{}
	user, err := userService.SetRole(context.Background(), subject, role, grant)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("user %s now has roles: %s\n", user.JwtSubject, user.Roles)
}

func showUser(subject string) {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}

	userService := service.UserService{}
	user, err := userService.GetUserBySubject(context.Background(), subject)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("subject:", user.JwtSubject)
	fmt.Println("name:", user.Name)
	fmt.Println("email:", user.Email)
	fmt.Println("roles:", user.Roles)
}

func main() {
	_ = godotenv.Load()

	var rootCmd = &cobra.Command{
		Use: "blogql",
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database schema",
		Run: func(cmd *cobra.Command, args []string) {
			migrateDb()
		},
	}

	var userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage local users",
	}

	var grantCmd = &cobra.Command{
		Use:   "grant",
		Short: "Grant a role to a user",
		Run: func(cmd *cobra.Command, args []string) {
			subject, _ := cmd.Flags().GetString("subject")
			role, _ := cmd.Flags().GetString("role")
			setUserRole(subject, role, true)
		},
	}
	grantCmd.Flags().String("subject", "", "JWT subject of the user")
	grantCmd.Flags().String("role", "", "role name: Operator, Admin or SysAdmin")
	grantCmd.MarkFlagRequired("subject")
	grantCmd.MarkFlagRequired("role")

	var revokeCmd = &cobra.Command{
		Use:   "revoke",
		Short: "Revoke a role from a user",
		Run: func(cmd *cobra.Command, args []string) {
			subject, _ := cmd.Flags().GetString("subject")
			role, _ := cmd.Flags().GetString("role")
			setUserRole(subject, role, false)
		},
	}
	revokeCmd.Flags().String("subject", "", "JWT subject of the user")
	revokeCmd.Flags().String("role", "", "role name: Operator, Admin or SysAdmin")
	revokeCmd.MarkFlagRequired("subject")
	revokeCmd.MarkFlagRequired("role")

	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show a user and their roles",
		Run: func(cmd *cobra.Command, args []string) {
			subject, _ := cmd.Flags().GetString("subject")
			showUser(subject)
		},
	}
	showCmd.Flags().String("subject", "", "JWT subject of the user")
	showCmd.MarkFlagRequired("subject")

	userCmd.AddCommand(grantCmd, revokeCmd, showCmd)
	rootCmd.AddCommand(runCmd, migrateCmd, userCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
