// usertool provisions accounts and groups from the command line:
//
//	usertool list-users
//	usertool list-groups
//	usertool create-group -name Engineering
//	usertool create-user -username john -password secret123 -group 1 [-type admin]
//	usertool rename-user -username john -to johnny
//	usertool move-user -username john -group 2
//	usertool assign-admin -admin 2 -group 3
//	usertool unassign-admin -admin 2 -group 3
//	usertool set-password -username john -password newsecret
package main

import (
	"flag"
	"fmt"
	"os"

	"otledger/config"
	"otledger/database"
	"otledger/models"
	"otledger/store"

	log "github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	st := store.New(db)

	switch os.Args[1] {
	case "list-users":
		listUsers(st)
	case "list-groups":
		listGroups(st)
	case "create-group":
		createGroup(st, os.Args[2:])
	case "create-user":
		createUser(st, os.Args[2:])
	case "rename-user":
		renameUser(st, os.Args[2:])
	case "move-user":
		moveUser(st, os.Args[2:])
	case "assign-admin":
		assignAdmin(st, os.Args[2:])
	case "unassign-admin":
		unassignAdmin(st, os.Args[2:])
	case "set-password":
		setPassword(st, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: usertool <list-users|list-groups|create-group|create-user|rename-user|move-user|assign-admin|unassign-admin|set-password> [flags]")
}

func listUsers(st *store.Store) {
	groups, err := st.Groups()
	if err != nil {
		log.WithError(err).Fatal("failed to list groups")
	}

	for _, group := range groups {
		users, err := st.UsersInGroups([]uint{group.ID})
		if err != nil {
			log.WithError(err).Fatal("failed to list users")
		}
		for _, user := range users {
			line := fmt.Sprintf("%d\t%s\t%s\t%s", user.ID, user.Username, user.UserType, group.Name)
			if user.IsAdmin() {
				managed, err := st.ManagedGroups(user.ID)
				if err != nil {
					log.WithError(err).Fatal("failed to list managed groups")
				}
				names := make([]string, 0, len(managed))
				for _, m := range managed {
					names = append(names, m.Name)
				}
				line += fmt.Sprintf("\tmanages: %v", names)
			}
			fmt.Println(line)
		}
	}
}

func listGroups(st *store.Store) {
	groups, err := st.Groups()
	if err != nil {
		log.WithError(err).Fatal("failed to list groups")
	}
	for _, group := range groups {
		fmt.Printf("%d\t%s\n", group.ID, group.Name)
	}
}

func createGroup(st *store.Store, args []string) {
	fs := flag.NewFlagSet("create-group", flag.ExitOnError)
	name := fs.String("name", "", "group name")
	_ = fs.Parse(args)

	group, err := st.CreateGroup(*name)
	if err != nil {
		log.WithError(err).Fatal("failed to create group")
	}
	fmt.Printf("created group %q with id %d\n", group.Name, group.ID)
}

func createUser(st *store.Store, args []string) {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	username := fs.String("username", "", "login name")
	password := fs.String("password", "", "initial password")
	groupID := fs.Uint("group", 0, "group id")
	userType := fs.String("type", "common", "admin or common")
	_ = fs.Parse(args)

	user, err := st.CreateUser(*username, *password, models.UserType(*userType), uint(*groupID))
	if err != nil {
		log.WithError(err).Fatal("failed to create user")
	}
	fmt.Printf("created user %q with id %d\n", user.Username, user.ID)
}

func renameUser(st *store.Store, args []string) {
	fs := flag.NewFlagSet("rename-user", flag.ExitOnError)
	username := fs.String("username", "", "current login name")
	to := fs.String("to", "", "new login name")
	_ = fs.Parse(args)

	user, err := st.FindUserByUsername(*username)
	if err != nil {
		log.WithError(err).Fatal("user not found")
	}
	if _, err := st.UpdateUser(user.ID, store.UserChanges{Username: to}); err != nil {
		log.WithError(err).Fatal("failed to rename user")
	}
	fmt.Printf("renamed %q to %q\n", *username, *to)
}

func moveUser(st *store.Store, args []string) {
	fs := flag.NewFlagSet("move-user", flag.ExitOnError)
	username := fs.String("username", "", "login name")
	groupID := fs.Uint("group", 0, "target group id")
	_ = fs.Parse(args)

	user, err := st.FindUserByUsername(*username)
	if err != nil {
		log.WithError(err).Fatal("user not found")
	}
	target := uint(*groupID)
	if _, err := st.UpdateUser(user.ID, store.UserChanges{GroupID: &target}); err != nil {
		log.WithError(err).Fatal("failed to move user")
	}
	fmt.Printf("moved %q to group %d\n", *username, target)
}

func assignAdmin(st *store.Store, args []string) {
	fs := flag.NewFlagSet("assign-admin", flag.ExitOnError)
	adminID := fs.Uint("admin", 0, "admin user id")
	groupID := fs.Uint("group", 0, "group id")
	_ = fs.Parse(args)

	if _, err := st.AssignAdmin(uint(*adminID), uint(*groupID)); err != nil {
		log.WithError(err).Fatal("failed to assign admin")
	}
	fmt.Printf("admin %d now manages group %d\n", *adminID, *groupID)
}

func unassignAdmin(st *store.Store, args []string) {
	fs := flag.NewFlagSet("unassign-admin", flag.ExitOnError)
	adminID := fs.Uint("admin", 0, "admin user id")
	groupID := fs.Uint("group", 0, "group id")
	_ = fs.Parse(args)

	if err := st.RemoveAdminAssignment(uint(*adminID), uint(*groupID)); err != nil {
		log.WithError(err).Fatal("failed to remove assignment")
	}
	fmt.Printf("admin %d no longer manages group %d\n", *adminID, *groupID)
}

func setPassword(st *store.Store, args []string) {
	fs := flag.NewFlagSet("set-password", flag.ExitOnError)
	username := fs.String("username", "", "login name")
	password := fs.String("password", "", "new password")
	_ = fs.Parse(args)

	user, err := st.FindUserByUsername(*username)
	if err != nil {
		log.WithError(err).Fatal("user not found")
	}
	if err := st.SetPassword(user.ID, *password); err != nil {
		log.WithError(err).Fatal("failed to set password")
	}
	fmt.Printf("password updated for %q\n", user.Username)
}
