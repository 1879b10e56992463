package gazetteer

import (
	"database/sql"
	"log"

	_ "github.com/lib/pq"
)

// Postgres serves gazetteer lookups from a locations table, typically
// a GeoNames import too large to hold in memory per trainer process.
// Lookup failures are logged and reported as misses; the samplers
// treat misses as unconstrained toponyms, never as fatal errors.
type Postgres struct {
	db *sql.DB
}

const locationColumns = "id, name, lat, long, population, type, container"

func OpenPostgres(dsn string) (*Postgres, error) {
	db, e := sql.Open("postgres", dsn)
	if e != nil {
		return nil, e
	}
	if e := db.Ping(); e != nil {
		return nil, e
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) Contains(name string) bool {
	var exists bool
	e := p.db.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM locations WHERE name = $1)",
		name).Scan(&exists)
	if e != nil {
		log.Printf("gazetteer: contains(%q): %v", name, e)
		return false
	}
	return exists
}

func (p *Postgres) Get(name string) []int32 {
	rows, e := p.db.Query(
		"SELECT id FROM locations WHERE name = $1 ORDER BY id", name)
	if e != nil {
		log.Printf("gazetteer: get(%q): %v", name, e)
		return nil
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if e := rows.Scan(&id); e != nil {
			log.Printf("gazetteer: get(%q): %v", name, e)
			return nil
		}
		ids = append(ids, id)
	}
	if e := rows.Err(); e != nil {
		log.Printf("gazetteer: get(%q): %v", name, e)
		return nil
	}
	return ids
}

func (p *Postgres) Location(id int32) (Location, bool) {
	var loc Location
	e := p.db.QueryRow(
		"SELECT "+locationColumns+" FROM locations WHERE id = $1", id).
		Scan(&loc.Id, &loc.Name, &loc.Coord.Lat, &loc.Coord.Long,
			&loc.Population, &loc.Type, &loc.Container)
	if e == sql.ErrNoRows {
		return Location{}, false
	}
	if e != nil {
		log.Printf("gazetteer: location(%d): %v", id, e)
		return Location{}, false
	}
	return loc, true
}
