package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed graphs.sql
var graphsSQL string

// GraphsFunctions lists the SQL functions the graphs handler relies on
var GraphsFunctions = []string{
	"init_graphs",
	"insert_graph",
	"select_graph",
	"select_all_graphs",
	"delete_graph",
	"insert_graph_node",
	"select_graph_nodes",
	"insert_graph_link",
	"select_graph_links",
	"select_faces_by_normal",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadGraphsSql loads graph-related SQL functions
func LoadGraphsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, GraphsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing graphs functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(graphsSQL)
	if err != nil {
		return fmt.Errorf("error executing graphs SQL: %w", err)
	}

	exist, err := checkFunctions(db, GraphsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL graphs functions loaded successfully")
	return nil
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	return LoadGraphsSql(db, force)
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
