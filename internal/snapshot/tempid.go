package snapshot

// TempID выдаёт временный отрицательный идентификатор для оптимистично
// созданной записи. Серверные id строго положительны, поэтому коллизия
// с ними исключена; миллисекундные часы делают повторы в рамках одной
// сессии практически невозможными.
func TempID(clock Clock) int64 {
	if clock == nil {
		clock = SystemClock{}
	}
	return -clock.Now().UnixMilli()
}

// IsTempID сообщает, является ли id временным (локальным).
func IsTempID(id int64) bool { return id < 0 }
