package discussion

import (
	"fmt"
	"strings"
)

// Sentinel lines shown to the model in place of an empty history.
const (
	noHistoryPrompt  = "まだ発言はありません。議論を開始してください。"
	noHistoryTrimmed = "まだ発言はありません。"
	elisionMarker    = "[...以前の発言は省略...]"
)

// History limits for the prompt variants.
const (
	responseHistoryLimit    = 15
	lightweightHistoryLimit = 10
)

// OptimizeConversationForAnalysis trims a conversation history to its most
// recent maxMessages lines, appending an elision marker when older lines are
// dropped.
func OptimizeConversationForAnalysis(history string, maxMessages int) string {
	if history == "" || history == noHistoryPrompt {
		return noHistoryTrimmed
	}

	lines := strings.Split(history, "\n")
	if len(lines) <= maxMessages {
		return history
	}

	recent := strings.Join(lines[len(lines)-maxMessages:], "\n")
	return recent + elisionMarker
}

// BuildAIResponsePrompt builds the role-conditioned response prompt for one
// participant's turn. The history is trimmed to the most recent lines.
func BuildAIResponsePrompt(name, role, description, history, topic string) string {
	formatted := noHistoryPrompt
	if history != "" {
		formatted = OptimizeConversationForAnalysis(history, responseHistoryLimit)
	}

	return fmt.Sprintf(`<discussion_context>
<discussion_topic>%[1]s</discussion_topic>

<participant>
<name>%[2]s</name>
<role>%[3]s</role>
<description>%[4]s</description>
</participant>

<conversation_history>
%[5]s
</conversation_history>

<discussion_guidelines>
議論を深めるために、以下のいずれかの要素を必ず含めてください：

1. 前の発言者への適切な反応
   - 質問に対しては：「〜という問いについて、私は...」「この問題については...」
   - 意見に対しては：「〜という意見について」「先ほどの〜の件ですが」「〜の指摘は興味深いですね」

2. 深掘りの要素
   - 具体例や事例の提示
   - "なぜ〜なのでしょうか？"という疑問
   - "もし〜だったらどうでしょう？"という仮定
   - "実際には〜ではないでしょうか"という検証

3. 新しい視点の提供
   - "別の角度から考えると"
   - "〜の観点では"
   - "実践的には"
   - "長期的に見ると"

4. 建設的な対話
   - 反対意見でも理由を明確に
   - 代替案や改善案の提示
   - 共通点の発見と課題の明確化
</discussion_guidelines>

<instructions>
あなたは%[2]sという%[3]sです。%[4]s

議論のテーマは「%[1]s」です。
上記のdiscussion_guidelinesに従い、議論を深める発言をしてください。

重要：会話履歴で「ユーザー」と表示されているのは実際の人間の参加者です。この発言は必ず考慮に入れてください。

必須要件：
- 前の発言者に具体的に反応する（質問に対しては意見を、意見に対しては反応を）
- 「ユーザー」が質問をしている場合は、質問に対する自分の立場を明確に表明する
- 「ユーザー」が意見を述べている場合は、その意見に対して賛成・反対・補足などの反応をする
- 具体例、疑問、仮定、検証のいずれかを含める
- %[2]sらしい視点と口調を維持
- 議論を前進させる内容にする
- 人間の参加者（ユーザー）の意見を尊重し、適切に応答する

回答は%[2]sの発言内容のみを返してください。説明や注釈は不要です。
日本語で250文字程度で発言してください。
</instructions>
</discussion_context>`, topic, name, role, description, formatted)
}

// BuildDiscussionStartPrompt builds the kickoff prompt introducing the topic
// to the listed participants.
func BuildDiscussionStartPrompt(topic string, participants []string) string {
	list := strings.Join(participants, ", ")

	return fmt.Sprintf(`<discussion_start>
<topic>%[1]s</topic>
<participants>%[2]s</participants>

<instructions>
議論のテーマは「%[1]s」です。
参加者は%[2]sです。

議論を開始するための導入的な発言をしてください。以下の要素を含めてください：
- テーマの紹介
- 議論の方向性の提案
- 参加者への問いかけ

自然で建設的な議論の開始を促すような発言をお願いします。
</instructions>
</discussion_start>`, topic, list)
}

// BuildDiscussionAnalysisPrompt builds the full point-analysis prompt. The
// model is instructed to answer with a bare JSON document.
func BuildDiscussionAnalysisPrompt(topic, history string, participants []string) string {
	list := strings.Join(participants, ", ")

	return fmt.Sprintf(`<discussion_analysis>
<topic>%s</topic>
<participants>%s</participants>

<current_conversation>
%s
</current_conversation>

<instructions>
この議論を分析し、以下の要素を抽出してください：

1. **主要論点** - 議論の中心となっている具体的な争点
2. **各参加者の立場** - 参加者ごとの現在の見解や主張
3. **対立点** - 参加者間で意見が分かれている具体的なポイント
4. **共通認識** - 参加者が共有している認識や合意点
5. **未探索領域** - まだ十分に議論されていない関連トピック

JSON形式で以下の構造で出力してください：

{
  "mainPoints": [
    {
      "point": "論点の具体的な内容",
      "description": "論点の詳細説明"
    }
  ],
  "participantStances": [
    {
      "participant": "参加者名",
      "stance": "その参加者の立場・主張",
      "keyArguments": ["主要な論拠1", "主要な論拠2"]
    }
  ],
  "conflicts": [
    {
      "issue": "対立している具体的な問題",
      "sides": ["立場A", "立場B"],
      "description": "対立の詳細"
    }
  ],
  "commonGround": [
    "共通認識1",
    "共通認識2"
  ],
  "unexploredAreas": [
    "未探索トピック1",
    "未探索トピック2"
  ]
}

重要：
- 参加者の立場は現在の発言に基づいて動的に分析する
- 「ユーザー」も他の参加者と同様に分析対象に含める
- 実際の発言内容から具体的に抽出する
- 推測や仮定は避け、発言に基づいた分析のみ行う
- 出力は純粋なJSONのみで、マークダウンのコードブロック（`+"```json"+`）や説明文は一切含めない
- 必ず有効なJSON形式で応答すること
</instructions>
</discussion_analysis>`, topic, list, history)
}

// BuildLightweightAnalysisPrompt builds the fast analysis variant covering
// only the most recent lines of the conversation.
func BuildLightweightAnalysisPrompt(topic, history string, participants []string) string {
	list := strings.Join(participants, ", ")
	optimized := OptimizeConversationForAnalysis(history, lightweightHistoryLimit)

	return fmt.Sprintf(`<discussion_analysis>
<topic>%s</topic>
<participants>%s</participants>

<recent_conversation>
%s
</recent_conversation>

<instructions>
直近の議論内容を分析し、以下の要素を簡潔に抽出してください：

1. **現在の主要論点** - 最近の発言で議論されている具体的な争点（最大3点）
2. **活発な参加者の立場** - 最近発言した参加者の現在の見解
3. **新たな対立点** - 最近浮上した意見の相違（あれば）
4. **直近の議論の方向性** - 議論がどの方向に進んでいるか

JSON形式で以下の構造で出力してください：

{
  "currentMainPoints": [
    {
      "point": "論点の具体的な内容",
      "recentness": "高/中/低"
    }
  ],
  "activeParticipants": [
    {
      "participant": "参加者名",
      "recentStance": "最近の立場・主張",
      "engagement": "発言の活発度（高/中/低）"
    }
  ],
  "newConflicts": [
    {
      "issue": "新たに対立している問題",
      "description": "対立の概要"
    }
  ],
  "discussionDirection": "議論の現在の方向性（一文で）"
}

重要：
- 最近の発言内容のみに基づいて分析する
- 「ユーザー」も他の参加者と同様に分析対象に含める
- 推測は避け、実際の発言に基づいた分析のみ行う
- 出力は純粋なJSONのみで、マークダウンのコードブロックや説明文は一切含めない
- 必ず有効なJSON形式で応答すること
</instructions>
</discussion_analysis>`, topic, list, optimized)
}

// BuildDiscussionSummaryPrompt builds the full summary prompt over the whole
// conversation.
func BuildDiscussionSummaryPrompt(topic, history string, participants []string) string {
	list := strings.Join(participants, ", ")

	return fmt.Sprintf(`<discussion_summary>
<topic>%[1]s</topic>
<participants>%[2]s</participants>

<conversation_to_summarize>
%[3]s
</conversation_to_summarize>

<instructions>
以下の議論を要約してください。テーマは「%[1]s」です。

重要：各参加者の「立場」を固定化せず、「議論の争点」を中心に要約してください。

要約に含めるべき要素：
1. 議論で浮上した主要な争点・論点
2. 提起された具体例や事例
3. 検証が必要な仮定や課題
4. 参加者間で生まれた疑問や質問
5. 未解決の問題や深掘りが必要な点

要約は以下の形式で出力してください：

【議論の争点】
- 争点1: [具体的な論点]
- 争点2: [具体的な論点]

【提起された具体例・事例】
- [具体例1]
- [具体例2]

【検証が必要な仮定】
- [仮定1]: [検証ポイント]
- [仮定2]: [検証ポイント]

【未解決の課題】
- [課題1]: [深掘りの必要性]
- [課題2]: [検討が必要な理由]

【次の議論の方向性】
- [継続すべき論点]
- [新たに検討すべき視点]

この要約により、議論が深化し続けるようにしてください。
</instructions>
</discussion_summary>`, topic, list, history)
}

// BuildIncrementalSummaryPrompt builds the lightweight summary variant: it
// folds the previous summary together with only the most recent lines, so a
// long-running discussion can be re-summarized cheaply.
func BuildIncrementalSummaryPrompt(topic, previousSummary, history string, participants []string) string {
	list := strings.Join(participants, ", ")
	optimized := OptimizeConversationForAnalysis(history, lightweightHistoryLimit)

	return fmt.Sprintf(`<discussion_summary_update>
<topic>%[1]s</topic>
<participants>%[2]s</participants>

<previous_summary>
%[3]s
</previous_summary>

<recent_conversation>
%[4]s
</recent_conversation>

<instructions>
これまでの要約と直近の発言をもとに、議論の要約を更新してください。テーマは「%[1]s」です。

重要：
- previous_summaryの内容を土台とし、recent_conversationで新たに浮上した争点・具体例・課題を反映する
- すでに解消された課題は【未解決の課題】から外す
- 形式はprevious_summaryと同じ（【議論の争点】【提起された具体例・事例】【検証が必要な仮定】【未解決の課題】【次の議論の方向性】）
- 要約の全文を出力すること。差分だけを出力しない
</instructions>
</discussion_summary_update>`, topic, list, previousSummary, optimized)
}
