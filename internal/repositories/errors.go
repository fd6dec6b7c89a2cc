package repositories

import "errors"

// Сторожевые ошибки слоя хранилища. Сервисный слой переводит их
// в типизированные ошибки API.
var (
	// ErrNotFound — запрошенная сущность отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName — категория с таким именем уже существует
	// и гонку не удалось разрешить возвратом существующей строки.
	ErrDuplicateName = errors.New("category name already exists")
	// ErrBadReassignTarget — целевая категория для переноса ссылок
	// не существует либо совпадает с удаляемой.
	ErrBadReassignTarget = errors.New("reassign target category does not exist")
)
