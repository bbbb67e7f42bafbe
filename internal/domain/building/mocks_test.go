package building

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type lightsMock struct{ mock.Mock }

func (m *lightsMock) GetStatus(context.Context) string { return m.Called().String(0) }
func (m *lightsMock) SetAll(_ context.Context, on bool) error {
	return m.Called(on).Error(0)
}

// flaggingLightsMock is a lighting manager that can also be flagged for an engineer.
type flaggingLightsMock struct{ lightsMock }

func (m *flaggingLightsMock) SetEngineerRequired(_ context.Context, required bool) error {
	return m.Called(required).Error(0)
}

type doorsMock struct{ mock.Mock }

func (m *doorsMock) GetStatus(context.Context) string { return m.Called().String(0) }
func (m *doorsMock) OpenAll(context.Context) error    { return m.Called().Error(0) }
func (m *doorsMock) LockAll(context.Context) error    { return m.Called().Error(0) }

type fireAlarmMock struct{ mock.Mock }

func (m *fireAlarmMock) GetStatus(context.Context) string { return m.Called().String(0) }
func (m *fireAlarmMock) SetAlarm(_ context.Context, on bool) error {
	return m.Called(on).Error(0)
}

type webMock struct{ mock.Mock }

func (m *webMock) LogFireAlarm(_ context.Context, modeName string) error {
	return m.Called(modeName).Error(0)
}

func (m *webMock) LogEngineerRequired(_ context.Context, listing string) error {
	return m.Called(listing).Error(0)
}

type emailMock struct{ mock.Mock }

func (m *emailMock) SendEmail(_ context.Context, to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}
