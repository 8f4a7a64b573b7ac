package repository

import (
	"context"
	"database/sql"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"eventsapp/internal/adapter/database/sqlite"
	"eventsapp/internal/core/domain"
	"eventsapp/internal/core/port"
	"eventsapp/internal/core/query"
)

var eventColumns = []string{"id", "name", "start_date", "duration", "longitude", "latitude", "address", "description", "created_at"}

type EventRepository struct {
	db *sqlite.DB
}

func NewEventRepository(db *sqlite.DB) port.EventRepository {
	return &EventRepository{db: db}
}

func (er *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	stmt, args, err := er.db.QueryBuilder.Insert("events").
		Columns("name", "start_date", "duration", "longitude", "latitude", "address", "description", "created_at").
		Values(event.Name, event.StartDate, event.Duration,
			event.Location.Longitude, event.Location.Latitude,
			event.Location.Address, event.Location.Description, event.CreatedAt).
		ToSql()

	if err != nil {
		return domain.Event{}, err
	}

	result, err := er.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error creating event", "error", err)
		return domain.Event{}, err
	}

	id, err := result.LastInsertId()

	if err != nil {
		return domain.Event{}, err
	}

	if err := er.replaceParticipants(ctx, int(id), event.Participants); err != nil {
		return domain.Event{}, err
	}

	return er.GetByID(ctx, int(id))
}

func (er *EventRepository) GetByID(ctx context.Context, id int) (domain.Event, error) {
	stmt, args, err := er.db.QueryBuilder.Select(eventColumns...).
		From("events").
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Event{}, err
	}

	event, err := scanEvent(eventColumns, er.db.QueryRowContext(ctx, stmt, args...).Scan)

	if err != nil {
		return domain.Event{}, err
	}

	participants, err := er.participantsFor(ctx, []int{event.ID})

	if err != nil {
		return domain.Event{}, err
	}

	event.Participants = participants[event.ID]

	return event, nil
}

func (er *EventRepository) Find(ctx context.Context, criteria query.Criteria) ([]domain.Event, error) {
	columns := criteria.SelectColumns(eventColumns)

	builder := er.db.QueryBuilder.Select(columns...).From("events")

	stmt, args, err := criteria.Apply(builder).ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := er.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error fetching events", "error", err)
		return nil, err
	}

	defer rows.Close()

	data := []domain.Event{}
	ids := []int{}

	for rows.Next() {
		event, err := scanEvent(columns, rows.Scan)

		if err != nil {
			return nil, err
		}

		data = append(data, event)
		ids = append(ids, event.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	participants, err := er.participantsFor(ctx, ids)

	if err != nil {
		return nil, err
	}

	for i := range data {
		data[i].Participants = participants[data[i].ID]
	}

	return data, nil
}

func (er *EventRepository) UpdateByID(ctx context.Context, id int, patch map[string]any) (domain.Event, error) {
	participants, hasParticipants := patch["participants"].([]int)
	delete(patch, "participants")

	if len(patch) > 0 {
		stmt, args, err := er.db.QueryBuilder.Update("events").
			SetMap(patch).
			Where(sq.Eq{"id": id}).
			ToSql()

		if err != nil {
			return domain.Event{}, err
		}

		result, err := er.db.ExecContext(ctx, stmt, args...)

		if err != nil {
			slog.Error("Error updating event", "error", err)
			return domain.Event{}, err
		}

		if affected, _ := result.RowsAffected(); affected == 0 {
			return domain.Event{}, sql.ErrNoRows
		}
	}

	if hasParticipants {
		// A participants-only patch never touched the events table, so the
		// id is still unverified at this point.
		if len(patch) == 0 {
			if _, err := er.GetByID(ctx, id); err != nil {
				return domain.Event{}, err
			}
		}

		if err := er.replaceParticipants(ctx, id, participants); err != nil {
			return domain.Event{}, err
		}
	}

	return er.GetByID(ctx, id)
}

// DeleteByID is physical for events, unlike users.
func (er *EventRepository) DeleteByID(ctx context.Context, id int) error {
	stmt, args, err := er.db.QueryBuilder.Delete("events").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := er.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (er *EventRepository) FindByParticipant(ctx context.Context, userID int) ([]domain.Event, error) {
	stmt, args, err := er.db.QueryBuilder.Select(prefixed("e", eventColumns)...).
		From("events e").
		Join("event_participants ep ON ep.event_id = e.id").
		Where(sq.Eq{"ep.user_id": userID}).
		OrderBy("e.start_date").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := er.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	data := []domain.Event{}

	for rows.Next() {
		event, err := scanEvent(eventColumns, rows.Scan)

		if err != nil {
			return nil, err
		}

		data = append(data, event)
	}

	return data, rows.Err()
}

func (er *EventRepository) ListParticipantNames(ctx context.Context, eventID int) ([]string, error) {
	stmt, args, err := er.db.QueryBuilder.Select("u.name").
		From("event_participants ep").
		Join("users u ON u.id = ep.user_id").
		Where(sq.Eq{"ep.event_id": eventID}).
		Where(sq.Eq{"u.is_deleted": false}).
		OrderBy("ep.position").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := er.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	names := []string{}

	for rows.Next() {
		var name string

		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		names = append(names, name)
	}

	return names, rows.Err()
}

func (er *EventRepository) AllWithLocation(ctx context.Context) ([]domain.Event, error) {
	stmt, args, err := er.db.QueryBuilder.Select(eventColumns...).
		From("events").
		Where("latitude IS NOT NULL").
		Where("longitude IS NOT NULL").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := er.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	data := []domain.Event{}

	for rows.Next() {
		event, err := scanEvent(eventColumns, rows.Scan)

		if err != nil {
			return nil, err
		}

		data = append(data, event)
	}

	return data, rows.Err()
}

func (er *EventRepository) replaceParticipants(ctx context.Context, eventID int, participants []int) error {
	stmt, args, err := er.db.QueryBuilder.Delete("event_participants").
		Where(sq.Eq{"event_id": eventID}).
		ToSql()

	if err != nil {
		return err
	}

	if _, err := er.db.ExecContext(ctx, stmt, args...); err != nil {
		return err
	}

	for position, userID := range participants {
		stmt, args, err := er.db.QueryBuilder.Insert("event_participants").
			Columns("event_id", "user_id", "position").
			Values(eventID, userID, position).
			ToSql()

		if err != nil {
			return err
		}

		if _, err := er.db.ExecContext(ctx, stmt, args...); err != nil {
			slog.Error("Error adding participant", "error", err, "event_id", eventID, "user_id", userID)
			return err
		}
	}

	return nil
}

// participantsFor returns the ordered participant ids for each event id.
func (er *EventRepository) participantsFor(ctx context.Context, eventIDs []int) (map[int][]int, error) {
	participants := map[int][]int{}

	if len(eventIDs) == 0 {
		return participants, nil
	}

	stmt, args, err := er.db.QueryBuilder.Select("event_id", "user_id").
		From("event_participants").
		Where(sq.Eq{"event_id": eventIDs}).
		OrderBy("event_id", "position").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := er.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var eventID, userID int

		if err := rows.Scan(&eventID, &userID); err != nil {
			return nil, err
		}

		participants[eventID] = append(participants[eventID], userID)
	}

	return participants, rows.Err()
}

func scanEvent(columns []string, scan func(...any) error) (domain.Event, error) {
	var event domain.Event
	var longitude, latitude sql.NullFloat64
	var address, description sql.NullString

	targets := make([]any, len(columns))

	for i, column := range columns {
		switch column {
		case "id":
			targets[i] = &event.ID
		case "name":
			targets[i] = &event.Name
		case "start_date":
			targets[i] = &event.StartDate
		case "duration":
			targets[i] = &event.Duration
		case "longitude":
			targets[i] = &longitude
		case "latitude":
			targets[i] = &latitude
		case "address":
			targets[i] = &address
		case "description":
			targets[i] = &description
		case "created_at":
			targets[i] = &event.CreatedAt
		default:
			targets[i] = new(any)
		}
	}

	if err := scan(targets...); err != nil {
		return domain.Event{}, err
	}

	event.Location = domain.GeoPoint{
		Type:        "Point",
		Longitude:   longitude.Float64,
		Latitude:    latitude.Float64,
		Address:     address.String,
		Description: description.String,
	}

	return event, nil
}

func prefixed(alias string, columns []string) []string {
	out := make([]string, len(columns))

	for i, column := range columns {
		out[i] = alias + "." + column
	}

	return out
}
