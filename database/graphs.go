// Package database persists exported graphs to PostgreSQL through SQL
// functions loaded at handler construction. Face normals are stored as
// pgvector columns for orientation similarity search.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/brepflow/aag/helper"
	"github.com/brepflow/aag/model"
	loadSql "github.com/brepflow/aag/sql"
)

// GraphsDBHandlerFunctions defines the interface for graph database
// operations.
type GraphsDBHandlerFunctions interface {
	InsertGraph(filename, fileFormat string, export *model.GraphExport, metadata model.Attributes) (*model.GraphRecord, error)
	SelectGraph(id uuid.UUID) (*model.GraphRecord, error)
	SelectAllGraphs() ([]*model.GraphRecord, error)
	SelectGraphExport(id uuid.UUID) (*model.GraphExport, error)
	SelectGraphNodes(id uuid.UUID, topologyType *model.TopologyType) ([]model.ExportNode, error)
	SelectGraphLinks(id uuid.UUID, relation *model.RelationType) ([]model.ExportLink, error)
	SelectFacesByNormal(id uuid.UUID, normal model.Vec3, limit int, threshold float64) ([]*model.FaceMatch, error)
	DeleteGraph(id uuid.UUID) error
}

// GraphsDBHandler handles graph-related database operations
type GraphsDBHandler struct {
	db *helper.Database
}

// NewGraphsDBHandler creates a new graphs database handler.
// It initializes the database connection and loads graph-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewGraphsDBHandler(db *helper.Database, force bool) (*GraphsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	graphsDbHandler := &GraphsDBHandler{
		db: db,
	}

	err := loadSql.LoadGraphsSql(graphsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load graphs sql", err)
	}

	err = graphsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized GraphsDBHandler")

	return graphsDbHandler, nil
}

// CreateTable creates the graph tables in the database.
// If the tables already exist, it does not create them again.
// It also creates all necessary indexes including the normal vector index.
func (h *GraphsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_graphs();`)
	if err != nil {
		log.Panicf("error initializing graph tables: %#v", err)
	}

	h.db.Logger.Info("Checked/created graph tables")

	return nil
}

// InsertGraph persists an exported graph: the header row plus all nodes
// and links, atomically. Face nodes with a normal attribute additionally
// store it as a vector for similarity search.
func (h *GraphsDBHandler) InsertGraph(filename, fileFormat string, export *model.GraphExport, metadata model.Attributes) (*model.GraphRecord, error) {
	if export == nil {
		return nil, helper.NewError("export validation", fmt.Errorf("export is nil"))
	}
	if metadata == nil {
		metadata = model.Attributes{}
	}

	tx, err := h.db.Instance.Begin()
	if err != nil {
		return nil, helper.NewError("begin transaction", err)
	}
	defer tx.Rollback()

	record := &model.GraphRecord{}
	row := tx.QueryRow(
		`SELECT * FROM insert_graph($1, $2, $3, $4, $5)`,
		filename,
		fileFormat,
		len(export.Nodes),
		len(export.Links),
		metadata,
	)
	err = row.Scan(
		&record.ID,
		&record.Filename,
		&record.FileFormat,
		&record.NodeCount,
		&record.LinkCount,
		&record.Metadata,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	for _, node := range export.Nodes {
		_, err = tx.Exec(
			`SELECT insert_graph_node($1, $2, $3, $4, $5)`,
			record.ID,
			node.ID,
			node.Group,
			node.Attributes,
			normalVector(node.Attributes),
		)
		if err != nil {
			return nil, helper.NewError("insert node", err)
		}
	}

	for _, link := range export.Links {
		_, err = tx.Exec(
			`SELECT insert_graph_link($1, $2, $3, $4, $5)`,
			record.ID,
			link.Source,
			link.Target,
			link.Relation,
			link.Attributes,
		)
		if err != nil {
			return nil, helper.NewError("insert link", err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return nil, helper.NewError("commit transaction", err)
	}

	h.db.Logger.Info("Inserted graph",
		"graph_id", record.ID.String(),
		"nodes", record.NodeCount,
		"links", record.LinkCount)

	return record, nil
}

// SelectGraph retrieves a graph header by ID
func (h *GraphsDBHandler) SelectGraph(id uuid.UUID) (*model.GraphRecord, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_graph($1)`,
		id,
	)

	record := &model.GraphRecord{}
	err := row.Scan(
		&record.ID,
		&record.Filename,
		&record.FileFormat,
		&record.NodeCount,
		&record.LinkCount,
		&record.Metadata,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return record, nil
}

// SelectAllGraphs retrieves all graph headers, newest first
func (h *GraphsDBHandler) SelectAllGraphs() ([]*model.GraphRecord, error) {
	rows, err := h.db.Instance.Query(`SELECT * FROM select_all_graphs()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var records []*model.GraphRecord
	for rows.Next() {
		record := &model.GraphRecord{}
		err := rows.Scan(
			&record.ID,
			&record.Filename,
			&record.FileFormat,
			&record.NodeCount,
			&record.LinkCount,
			&record.Metadata,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		records = append(records, record)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return records, nil
}

// SelectGraphExport reassembles the full node/link export of a graph
func (h *GraphsDBHandler) SelectGraphExport(id uuid.UUID) (*model.GraphExport, error) {
	nodes, err := h.SelectGraphNodes(id, nil)
	if err != nil {
		return nil, err
	}

	links, err := h.SelectGraphLinks(id, nil)
	if err != nil {
		return nil, err
	}

	return &model.GraphExport{Nodes: nodes, Links: links}, nil
}

// SelectGraphNodes retrieves the nodes of a graph, optionally filtered by
// topology type
func (h *GraphsDBHandler) SelectGraphNodes(id uuid.UUID, topologyType *model.TopologyType) ([]model.ExportNode, error) {
	var rows *sql.Rows
	var err error

	if topologyType != nil {
		rows, err = h.db.Instance.Query(
			`SELECT * FROM select_graph_nodes($1, $2)`,
			id,
			string(*topologyType),
		)
	} else {
		rows, err = h.db.Instance.Query(
			`SELECT * FROM select_graph_nodes($1, NULL)`,
			id,
		)
	}

	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var nodes []model.ExportNode
	for rows.Next() {
		node := model.ExportNode{}
		err := rows.Scan(
			&node.ID,
			&node.Group,
			&node.Attributes,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		nodes = append(nodes, node)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return nodes, nil
}

// SelectGraphLinks retrieves the links of a graph, optionally filtered by
// relationship type
func (h *GraphsDBHandler) SelectGraphLinks(id uuid.UUID, relation *model.RelationType) ([]model.ExportLink, error) {
	var rows *sql.Rows
	var err error

	if relation != nil {
		rows, err = h.db.Instance.Query(
			`SELECT * FROM select_graph_links($1, $2)`,
			id,
			string(*relation),
		)
	} else {
		rows, err = h.db.Instance.Query(
			`SELECT * FROM select_graph_links($1, NULL)`,
			id,
		)
	}

	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var links []model.ExportLink
	for rows.Next() {
		link := model.ExportLink{}
		err := rows.Scan(
			&link.Source,
			&link.Target,
			&link.Relation,
			&link.Attributes,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		links = append(links, link)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return links, nil
}

// SelectFacesByNormal performs cosine similarity search over stored face
// normals, most similar first
func (h *GraphsDBHandler) SelectFacesByNormal(id uuid.UUID, normal model.Vec3, limit int, threshold float64) ([]*model.FaceMatch, error) {
	normalVec := pgvector.NewVector([]float32{
		float32(normal.X()),
		float32(normal.Y()),
		float32(normal.Z()),
	})

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_faces_by_normal($1, $2, $3, $4)`,
		id,
		normalVec,
		limit,
		threshold,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var matches []*model.FaceMatch
	for rows.Next() {
		match := &model.FaceMatch{}
		err := rows.Scan(
			&match.GraphID,
			&match.NodeID,
			&match.Attributes,
			&match.Similarity,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		matches = append(matches, match)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return matches, nil
}

// DeleteGraph deletes a graph with its nodes and links by ID
func (h *GraphsDBHandler) DeleteGraph(id uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_graph($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// normalVector extracts a face normal attribute as a pgvector value, or
// nil when the node has none
func normalVector(attrs model.Attributes) interface{} {
	normal, ok := attrs.Vec("normal")
	if !ok {
		return nil
	}
	return pgvector.NewVector([]float32{
		float32(normal.X()),
		float32(normal.Y()),
		float32(normal.Z()),
	})
}
